package tourism

import "github.com/pulosarok/desa/internal/domain/shared"

// Slugify derives a location slug from its title
func Slugify(title string) string {
	return shared.Slugify(title, "lokasi")
}
