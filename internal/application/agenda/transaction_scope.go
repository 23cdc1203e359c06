package agenda

import (
	"context"

	"github.com/pulosarok/desa/internal/domain/agenda"
)

// TransactionScope runs a registration and its seat count atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction.
// EventRepo().FindForUpdate serializes registrations against the same event.
type TransactionalRepositories interface {
	EventRepo() agenda.EventRepository
	ParticipantRepo() agenda.ParticipantRepository
}

// NoOpTransactionScope runs fn against plain repositories. Useful for tests.
type NoOpTransactionScope struct {
	events       agenda.EventRepository
	participants agenda.ParticipantRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(events agenda.EventRepository, participants agenda.ParticipantRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{events: events, participants: participants}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) EventRepo() agenda.EventRepository { return s.events }

func (s *NoOpTransactionScope) ParticipantRepo() agenda.ParticipantRepository {
	return s.participants
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
