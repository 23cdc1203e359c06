package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// RegisterGormTracing adds a span per SQL statement. Bound values are left out of
// span attributes unless includeValues is set, since resident data is personal.
func RegisterGormTracing(db *gorm.DB, dbName string, includeValues bool) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(dbName)}
	if !includeValues {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm plugin: %w", err)
	}
	return nil
}
