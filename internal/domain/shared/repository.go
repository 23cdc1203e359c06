package shared

import (
	"context"

	"github.com/google/uuid"
)

// TenantStore is the persistence contract shared by every tenant-scoped aggregate.
// Context repositories embed it and add their own finders.
type TenantStore[T any] interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]T, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) (int64, error)
	Save(ctx context.Context, entity *T) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

const (
	// DefaultPageSize is used when a list request omits page_size
	DefaultPageSize = 20
	// MaxPageSize caps page_size for every list endpoint
	MaxPageSize = 100
)

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// NewFilter builds a normalized filter from raw list parameters
func NewFilter(page, pageSize int, search, orderBy, orderDir string) Filter {
	f := DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	f.Search = search
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir == "asc" || orderDir == "desc" {
		f.OrderDir = orderDir
	}
	return f
}

// With sets an equality filter and returns the filter for chaining.
// Nil pointers and empty strings are ignored.
func (f Filter) With(key string, value interface{}) Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	switch v := value.(type) {
	case nil:
		return f
	case string:
		if v == "" {
			return f
		}
	case *string:
		if v == nil || *v == "" {
			return f
		}
		value = *v
	case *bool:
		if v == nil {
			return f
		}
		value = *v
	case *uuid.UUID:
		if v == nil {
			return f
		}
		value = *v
	}
	f.Filters[key] = value
	return f
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
