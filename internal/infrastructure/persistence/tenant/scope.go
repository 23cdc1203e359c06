// Package tenant scopes GORM queries to one village.
//
//	db.Scopes(tenant.Scope(tenantID)).Find(&letters)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a query is scoped to the nil tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Scope restricts a query to rows of tenantID. A nil tenant poisons the query
// instead of silently reading every tenant's rows.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return ScopeColumn("tenant_id", tenantID)
}

// ScopeColumn is Scope for tables whose tenant column is qualified or renamed
func ScopeColumn(column string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(column+" = ?", tenantID)
	}
}
