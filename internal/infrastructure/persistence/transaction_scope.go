package persistence

import (
	"context"

	appagenda "github.com/pulosarok/desa/internal/application/agenda"
	appbeneficiary "github.com/pulosarok/desa/internal/application/beneficiary"
	appletter "github.com/pulosarok/desa/internal/application/letter"
	apporganization "github.com/pulosarok/desa/internal/application/organization"
	"github.com/pulosarok/desa/internal/domain/agenda"
	"github.com/pulosarok/desa/internal/domain/beneficiary"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/organization"
	"gorm.io/gorm"
)

// GormLetterTransactionScope implements the letter TransactionScope with GORM transactions
type GormLetterTransactionScope struct {
	db *gorm.DB
}

// NewGormLetterTransactionScope creates a new GormLetterTransactionScope
func NewGormLetterTransactionScope(db *gorm.DB) *GormLetterTransactionScope {
	return &GormLetterTransactionScope{db: db}
}

// Execute runs fn within a database transaction. An error from fn rolls back
// every write, including a consumed counter value.
func (s *GormLetterTransactionScope) Execute(ctx context.Context, fn func(repos appletter.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&letterTxRepositories{tx: tx})
	})
}

// letterTxRepositories hands out repositories bound to one transaction
type letterTxRepositories struct {
	tx *gorm.DB
}

func (r *letterTxRepositories) LetterRepo() letter.LetterRepository {
	return NewGormLetterRepository(r.tx)
}

func (r *letterTxRepositories) SequenceRepo() letter.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

func (r *letterTxRepositories) TrackingRepo() letter.TrackingRepository {
	return NewGormTrackingRepository(r.tx)
}

func (r *letterTxRepositories) AIValidationRepo() letter.AIValidationRepository {
	return NewGormAIValidationRepository(r.tx)
}

func (r *letterTxRepositories) SignatureRepo() letter.SignatureRepository {
	return NewGormSignatureRepository(r.tx)
}

// GormAidTransactionScope implements the aid TransactionScope with GORM transactions
type GormAidTransactionScope struct {
	db *gorm.DB
}

// NewGormAidTransactionScope creates a new GormAidTransactionScope
func NewGormAidTransactionScope(db *gorm.DB) *GormAidTransactionScope {
	return &GormAidTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormAidTransactionScope) Execute(ctx context.Context, fn func(repos appbeneficiary.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&aidTxRepositories{tx: tx})
	})
}

type aidTxRepositories struct {
	tx *gorm.DB
}

func (r *aidTxRepositories) ProgramRepo() beneficiary.ProgramRepository {
	return NewGormProgramRepository(r.tx)
}

func (r *aidTxRepositories) DistributionRepo() beneficiary.DistributionRepository {
	return NewGormDistributionRepository(r.tx)
}

// GormOrganizationTransactionScope implements the organization TransactionScope with GORM transactions
type GormOrganizationTransactionScope struct {
	db *gorm.DB
}

// NewGormOrganizationTransactionScope creates a new GormOrganizationTransactionScope
func NewGormOrganizationTransactionScope(db *gorm.DB) *GormOrganizationTransactionScope {
	return &GormOrganizationTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormOrganizationTransactionScope) Execute(ctx context.Context, fn func(repos apporganization.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&organizationTxRepositories{tx: tx})
	})
}

type organizationTxRepositories struct {
	tx *gorm.DB
}

func (r *organizationTxRepositories) PeriodRepo() organization.PeriodRepository {
	return NewGormPeriodRepository(r.tx)
}

// GormAgendaTransactionScope implements the agenda TransactionScope with GORM transactions
type GormAgendaTransactionScope struct {
	db *gorm.DB
}

// NewGormAgendaTransactionScope creates a new GormAgendaTransactionScope
func NewGormAgendaTransactionScope(db *gorm.DB) *GormAgendaTransactionScope {
	return &GormAgendaTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormAgendaTransactionScope) Execute(ctx context.Context, fn func(repos appagenda.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&agendaTxRepositories{tx: tx})
	})
}

type agendaTxRepositories struct {
	tx *gorm.DB
}

func (r *agendaTxRepositories) EventRepo() agenda.EventRepository {
	return NewGormEventRepository(r.tx)
}

func (r *agendaTxRepositories) ParticipantRepo() agenda.ParticipantRepository {
	return NewGormParticipantRepository(r.tx)
}

var (
	_ appletter.TransactionScope                = (*GormLetterTransactionScope)(nil)
	_ appletter.TransactionalRepositories       = (*letterTxRepositories)(nil)
	_ appbeneficiary.TransactionScope           = (*GormAidTransactionScope)(nil)
	_ appbeneficiary.TransactionalRepositories  = (*aidTxRepositories)(nil)
	_ apporganization.TransactionScope          = (*GormOrganizationTransactionScope)(nil)
	_ apporganization.TransactionalRepositories = (*organizationTxRepositories)(nil)
	_ appagenda.TransactionScope                = (*GormAgendaTransactionScope)(nil)
	_ appagenda.TransactionalRepositories       = (*agendaTxRepositories)(nil)
)
