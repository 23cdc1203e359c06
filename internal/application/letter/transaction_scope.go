package letter

import (
	"context"

	"github.com/pulosarok/desa/internal/domain/letter"
)

// TransactionScope provides transactional access to letter repositories.
// Repository operations inside Execute share one database transaction and are
// committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the letter repositories bound to one transaction.
//
//   - LetterRepo: the Letter aggregate; FindByIDForUpdate holds the row lock for the
//     rest of the transaction.
//   - SequenceRepo: the per-(tenant, year) counter. Next must run in the same
//     transaction that stores the number so a rollback releases nothing.
//   - TrackingRepo: append-only history written alongside each transition.
type TransactionalRepositories interface {
	LetterRepo() letter.LetterRepository
	SequenceRepo() letter.SequenceRepository
	TrackingRepo() letter.TrackingRepository
	AIValidationRepo() letter.AIValidationRepository
	SignatureRepo() letter.SignatureRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	letterRepo     letter.LetterRepository
	sequenceRepo   letter.SequenceRepository
	trackingRepo   letter.TrackingRepository
	validationRepo letter.AIValidationRepository
	signatureRepo  letter.SignatureRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	letterRepo letter.LetterRepository,
	sequenceRepo letter.SequenceRepository,
	trackingRepo letter.TrackingRepository,
	validationRepo letter.AIValidationRepository,
	signatureRepo letter.SignatureRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		letterRepo:     letterRepo,
		sequenceRepo:   sequenceRepo,
		trackingRepo:   trackingRepo,
		validationRepo: validationRepo,
		signatureRepo:  signatureRepo,
	}
}

// Execute runs fn without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) LetterRepo() letter.LetterRepository     { return s.letterRepo }
func (s *NoOpTransactionScope) SequenceRepo() letter.SequenceRepository { return s.sequenceRepo }
func (s *NoOpTransactionScope) TrackingRepo() letter.TrackingRepository { return s.trackingRepo }
func (s *NoOpTransactionScope) AIValidationRepo() letter.AIValidationRepository {
	return s.validationRepo
}
func (s *NoOpTransactionScope) SignatureRepo() letter.SignatureRepository { return s.signatureRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
