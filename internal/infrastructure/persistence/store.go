package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Range operators accepted as filter key suffixes, e.g. "submission_date__gte"
const (
	opGTE = "__gte"
	opLTE = "__lte"
)

// listSpec describes which list parameters a table accepts
type listSpec struct {
	// searchColumns are matched case-insensitively with LIKE
	searchColumns []string
	// sortFields whitelists order_by values
	sortFields map[string]bool
	// filterColumns whitelists filter keys; range suffixes apply to any of them
	filterColumns map[string]bool
	defaultOrder  string
}

// gormTenantStore implements shared.TenantStore for one tenant-scoped table
type gormTenantStore[T any] struct {
	db   *gorm.DB
	spec listSpec
}

func newTenantStore[T any](db *gorm.DB, spec listSpec) gormTenantStore[T] {
	if spec.defaultOrder == "" {
		spec.defaultOrder = "created_at DESC"
	}
	return gormTenantStore[T]{db: db, spec: spec}
}

func (s gormTenantStore[T]) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	var zero T
	return s.db.WithContext(ctx).Model(&zero).Scopes(tenant.Scope(tenantID))
}

// FindByIDForTenant finds a row by ID within a tenant
func (s gormTenantStore[T]) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	var out T
	if err := s.scoped(ctx, tenantID).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindAllForTenant lists one page of rows matching filter
func (s gormTenantStore[T]) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	var out []T
	q := s.applyFilter(s.scoped(ctx, tenantID), filter)
	q = q.Order(s.order(filter))
	if filter.PageSize > 0 {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountForTenant counts rows matching filter, ignoring pagination
func (s gormTenantStore[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := s.applyFilter(s.scoped(ctx, tenantID), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a row. See saveVersioned for the version check.
func (s gormTenantStore[T]) Save(ctx context.Context, entity *T) error {
	return saveVersioned(s.db.WithContext(ctx), entity)
}

// DeleteForTenant deletes a row within a tenant
func (s gormTenantStore[T]) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	var zero T
	result := s.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&zero)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists reports whether any tenant row matches the condition
func (s gormTenantStore[T]) exists(ctx context.Context, tenantID uuid.UUID, query string, args ...any) (bool, error) {
	var count int64
	if err := s.scoped(ctx, tenantID).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s gormTenantStore[T]) applyFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" && len(s.spec.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(s.spec.searchColumns))
		args := make([]any, len(s.spec.searchColumns))
		for i, col := range s.spec.searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}

	for key, value := range filter.Filters {
		column, op := splitFilterKey(key)
		if !s.spec.filterColumns[column] {
			continue
		}
		switch op {
		case opGTE:
			q = q.Where(column+" >= ?", value)
		case opLTE:
			q = q.Where(column+" <= ?", value)
		default:
			q = q.Where(column+" = ?", value)
		}
	}
	return q
}

func (s gormTenantStore[T]) order(filter shared.Filter) string {
	field := ValidateSortField(filter.OrderBy, s.spec.sortFields, "")
	if field == "" {
		return s.spec.defaultOrder
	}
	return field + " " + ValidateSortOrder(filter.OrderDir)
}

func splitFilterKey(key string) (column, op string) {
	for _, suffix := range []string{opGTE, opLTE} {
		if strings.HasSuffix(key, suffix) {
			return strings.TrimSuffix(key, suffix), suffix
		}
	}
	return key, ""
}

// forUpdate adds a row lock to q. SQLite serializes writers already and
// does not support the clause, so it is left out there.
func forUpdate(q *gorm.DB) *gorm.DB {
	if q.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps driver errors onto domain errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return shared.ErrAlreadyExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// sortFields builds a whitelist that always includes the base entity columns
func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

// columns builds a filter whitelist
func columns(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
