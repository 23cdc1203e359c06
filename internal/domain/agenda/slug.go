package agenda

import "github.com/pulosarok/desa/internal/domain/shared"

// Slugify derives an event slug from its title
func Slugify(title string) string {
	return shared.Slugify(title, "acara")
}
