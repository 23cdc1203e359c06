package organization

import (
	"context"

	"github.com/pulosarok/desa/internal/domain/organization"
)

// TransactionScope runs period activation atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	PeriodRepo() organization.PeriodRepository
}

// NoOpTransactionScope runs fn against the plain period repository. Useful for tests.
type NoOpTransactionScope struct {
	periods organization.PeriodRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(periods organization.PeriodRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{periods: periods}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) PeriodRepo() organization.PeriodRepository { return s.periods }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
