package beneficiary

import (
	"context"

	"github.com/pulosarok/desa/internal/domain/beneficiary"
)

// TransactionScope provides transactional access to aid repositories.
// Budget checks and the status change they guard run in one transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the aid repositories bound to one transaction.
// ProgramRepo().FindForUpdate serializes approvals against the same program.
type TransactionalRepositories interface {
	ProgramRepo() beneficiary.ProgramRepository
	DistributionRepo() beneficiary.DistributionRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	programs      beneficiary.ProgramRepository
	distributions beneficiary.DistributionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(programs beneficiary.ProgramRepository, distributions beneficiary.DistributionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{programs: programs, distributions: distributions}
}

// Execute runs fn without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProgramRepo() beneficiary.ProgramRepository { return s.programs }

func (s *NoOpTransactionScope) DistributionRepo() beneficiary.DistributionRepository {
	return s.distributions
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
