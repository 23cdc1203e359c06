package beneficiary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/beneficiary"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errProgramNotFound      = shared.NewDomainError("NOT_FOUND", "Aid program not found")
	errDistributionNotFound = shared.NewDomainError("NOT_FOUND", "Distribution not found")
)

// AidService manages aid programs and their distributions
type AidService struct {
	scope         TransactionScope
	programs      beneficiary.ProgramRepository
	distributions beneficiary.DistributionRepository
	beneficiaries beneficiary.BeneficiaryRepository
	logger        *zap.Logger
	now           func() time.Time
}

// NewAidService creates a new AidService
func NewAidService(
	scope TransactionScope,
	programs beneficiary.ProgramRepository,
	distributions beneficiary.DistributionRepository,
	beneficiaries beneficiary.BeneficiaryRepository,
	logger *zap.Logger,
) *AidService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AidService{
		scope:         scope,
		programs:      programs,
		distributions: distributions,
		beneficiaries: beneficiaries,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateProgram adds an aid program
func (s *AidService) CreateProgram(ctx context.Context, tenantID uuid.UUID, req ProgramRequest) (*ProgramResponse, error) {
	p, err := beneficiary.NewProgram(tenantID, req.input())
	if err != nil {
		return nil, err
	}
	return s.saveProgram(ctx, p, req)
}

// UpdateProgram replaces an aid program
func (s *AidService) UpdateProgram(ctx context.Context, tenantID, id uuid.UUID, req ProgramRequest) (*ProgramResponse, error) {
	p, err := s.findProgram(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.input()); err != nil {
		return nil, err
	}
	return s.saveProgram(ctx, p, req)
}

func (s *AidService) saveProgram(ctx context.Context, p *beneficiary.Program, req ProgramRequest) (*ProgramResponse, error) {
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.programs.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProgramResponse(p)
	return &resp, nil
}

// GetProgram returns one aid program
func (s *AidService) GetProgram(ctx context.Context, tenantID, id uuid.UUID) (*ProgramResponse, error) {
	p, err := s.findProgram(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProgramResponse(p)
	return &resp, nil
}

// ListPrograms returns one page of aid programs
func (s *AidService) ListPrograms(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProgramResponse, int64, error) {
	return listPage(ctx, s.programs, tenantID, filter, ToProgramResponse)
}

// DeleteProgram removes an aid program
func (s *AidService) DeleteProgram(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findProgram(ctx, tenantID, id); err != nil {
		return err
	}
	return s.programs.DeleteForTenant(ctx, tenantID, id)
}

// Summary reports how much of a program's budget is committed
func (s *AidService) Summary(ctx context.Context, tenantID, id uuid.UUID) (*ProgramSummaryResponse, error) {
	p, err := s.findProgram(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	used, err := s.distributions.CommittedUsage(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	distributed, err := s.distributions.CountDistributed(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	sum := p.Summarize(used, distributed)
	return &ProgramSummaryResponse{
		ProgramID:           sum.ProgramID,
		TotalBudget:         sum.TotalBudget,
		BudgetUsed:          sum.BudgetUsed,
		BudgetRemaining:     sum.BudgetRemaining,
		DistributedCount:    sum.DistributedCount,
		CommittedCount:      sum.CommittedCount,
		TargetBeneficiaries: sum.TargetBeneficiary,
	}, nil
}

// CreateDistribution records a pending distribution for an active beneficiary
func (s *AidService) CreateDistribution(ctx context.Context, tenantID uuid.UUID, req DistributionRequest) (*DistributionResponse, error) {
	p, err := s.findProgram(ctx, tenantID, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, shared.NewDomainError("PROGRAM_INACTIVE", "Aid program is not active")
	}
	b, err := s.beneficiaries.FindByIDForTenant(ctx, tenantID, req.BeneficiaryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errBeneficiaryNotFound
		}
		return nil, err
	}
	if !b.IsActive() {
		return nil, shared.NewDomainError("BENEFICIARY_INACTIVE", "Beneficiary is not active")
	}

	date := s.now()
	if req.DistributionDate != nil {
		date = *req.DistributionDate
	}
	d, err := beneficiary.NewDistribution(tenantID, p.ID, b.ID, req.AmountReceived, date)
	if err != nil {
		return nil, err
	}
	d.Notes = req.Notes
	if err := s.distributions.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// Approve commits a pending distribution against the program budget and
// target. The program row stays locked until the status change is stored.
func (s *AidService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*DistributionResponse, error) {
	var d *beneficiary.Distribution
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		d, err = findDistribution(ctx, repos.DistributionRepo(), tenantID, id)
		if err != nil {
			return err
		}
		p, err := repos.ProgramRepo().FindForUpdate(ctx, tenantID, d.ProgramID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errProgramNotFound
			}
			return err
		}
		used, err := repos.DistributionRepo().CommittedUsage(ctx, tenantID, p.ID)
		if err != nil {
			return err
		}
		if err := p.CanCommit(used, d.AmountReceived); err != nil {
			return err
		}
		if err := d.Approve(); err != nil {
			return err
		}
		return repos.DistributionRepo().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Distribution approved",
		zap.String("distribution_id", d.ID.String()),
		zap.String("amount", d.AmountReceived.String()))
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// Reject rejects a pending distribution
func (s *AidService) Reject(ctx context.Context, tenantID, id uuid.UUID, req RejectDistributionRequest) (*DistributionResponse, error) {
	d, err := findDistribution(ctx, s.distributions, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := d.Reject(req.Notes); err != nil {
		return nil, err
	}
	if err := s.distributions.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// Distribute records the handover of an approved distribution
func (s *AidService) Distribute(ctx context.Context, tenantID, id, by uuid.UUID, req DistributeRequest) (*DistributionResponse, error) {
	d, err := findDistribution(ctx, s.distributions, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := d.MarkDistributed(by, req.ReceiptNumber, s.now()); err != nil {
		return nil, err
	}
	if err := s.distributions.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// GetDistribution returns one distribution
func (s *AidService) GetDistribution(ctx context.Context, tenantID, id uuid.UUID) (*DistributionResponse, error) {
	d, err := findDistribution(ctx, s.distributions, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// ListDistributions returns one page of distributions
func (s *AidService) ListDistributions(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]DistributionResponse, int64, error) {
	return listPage(ctx, s.distributions, tenantID, filter, ToDistributionResponse)
}

// DeleteDistribution removes a distribution that was never committed
func (s *AidService) DeleteDistribution(ctx context.Context, tenantID, id uuid.UUID) error {
	d, err := findDistribution(ctx, s.distributions, tenantID, id)
	if err != nil {
		return err
	}
	if d.Status == beneficiary.DistributionApproved || d.Status == beneficiary.DistributionDistributed {
		return shared.NewDomainError("INVALID_STATE", "Committed distributions cannot be deleted")
	}
	return s.distributions.DeleteForTenant(ctx, tenantID, id)
}

func (s *AidService) findProgram(ctx context.Context, tenantID, id uuid.UUID) (*beneficiary.Program, error) {
	p, err := s.programs.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errProgramNotFound
		}
		return nil, err
	}
	return p, nil
}

func findDistribution(ctx context.Context, repo beneficiary.DistributionRepository, tenantID, id uuid.UUID) (*beneficiary.Distribution, error) {
	d, err := repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errDistributionNotFound
		}
		return nil, err
	}
	return d, nil
}
