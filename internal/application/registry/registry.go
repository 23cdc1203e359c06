package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// Record is the pointer side of a registry entity
type Record[T any] interface {
	*T
	Validate() error
	GetID() uuid.UUID
	Touch()
	IncrementVersion()
}

// Registry is a CRUD service over one tenant table. Registries differ only in
// their entity, request and response shapes and their reference and unique key checks.
type Registry[T any, P Record[T], Req, Resp any] struct {
	Store    shared.TenantStore[T]
	NotFound error
	New      func(tenantID uuid.UUID) P
	Apply    func(P, Req)
	Respond  func(P) Resp
	// Check validates references to other rows; nil when there are none
	Check func(ctx context.Context, e P) error
	// Unique reports whether another row already holds e's unique key; nil when there is none
	Unique   func(ctx context.Context, e P) (bool, error)
	Conflict error
}

// Create validates and stores a new entry
func (r *Registry[T, P, Req, Resp]) Create(ctx context.Context, tenantID uuid.UUID, req Req) (*Resp, error) {
	e := r.New(tenantID)
	return r.save(ctx, e, req)
}

// Update replaces an entry
func (r *Registry[T, P, Req, Resp]) Update(ctx context.Context, tenantID, id uuid.UUID, req Req) (*Resp, error) {
	e, err := r.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	e.Touch()
	e.IncrementVersion()
	return r.save(ctx, e, req)
}

func (r *Registry[T, P, Req, Resp]) save(ctx context.Context, e P, req Req) (*Resp, error) {
	r.Apply(e, req)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if r.Check != nil {
		if err := r.Check(ctx, e); err != nil {
			return nil, err
		}
	}
	if r.Unique != nil {
		taken, err := r.Unique(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("failed to check unique key: %w", err)
		}
		if taken {
			return nil, r.Conflict
		}
	}
	if err := r.Store.Save(ctx, (*T)(e)); err != nil {
		return nil, err
	}
	resp := r.Respond(e)
	return &resp, nil
}

// Find loads an entity, mapping a missing row onto NotFound
func (r *Registry[T, P, Req, Resp]) Find(ctx context.Context, tenantID, id uuid.UUID) (P, error) {
	return r.find(ctx, tenantID, id)
}

// Get returns one entry
func (r *Registry[T, P, Req, Resp]) Get(ctx context.Context, tenantID, id uuid.UUID) (*Resp, error) {
	e, err := r.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := r.Respond(e)
	return &resp, nil
}

// List returns one page of entries
func (r *Registry[T, P, Req, Resp]) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Resp, int64, error) {
	rows, err := r.Store.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Store.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Resp, len(rows))
	for i := range rows {
		out[i] = r.Respond(P(&rows[i]))
	}
	return out, total, nil
}

// Delete removes an entry
func (r *Registry[T, P, Req, Resp]) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.find(ctx, tenantID, id); err != nil {
		return err
	}
	return r.Store.DeleteForTenant(ctx, tenantID, id)
}

func (r *Registry[T, P, Req, Resp]) find(ctx context.Context, tenantID, id uuid.UUID) (P, error) {
	e, err := r.Store.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, r.NotFound
		}
		return nil, err
	}
	return P(e), nil
}
