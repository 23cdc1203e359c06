package letter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
)

var errRecipientNotFound = shared.NewDomainError("NOT_FOUND", "Recipient not found")

// RecipientService manages the addressees of a letter
type RecipientService struct {
	recipients letter.RecipientRepository
	letters    letter.LetterRepository
}

// NewRecipientService creates a new RecipientService
func NewRecipientService(recipients letter.RecipientRepository, letters letter.LetterRepository) *RecipientService {
	return &RecipientService{recipients: recipients, letters: letters}
}

// Add attaches a recipient to a letter
func (s *RecipientService) Add(ctx context.Context, tenantID, letterID uuid.UUID, req RecipientRequest) (*RecipientResponse, error) {
	if _, err := s.letters.FindByIDForTenant(ctx, tenantID, letterID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	r, err := letter.NewRecipient(tenantID, letterID, letter.RecipientType(req.RecipientType), req.Name, letter.DeliveryMethod(req.DeliveryMethod))
	if err != nil {
		return nil, err
	}
	if err := applyRecipient(r, req); err != nil {
		return nil, err
	}
	if err := s.recipients.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRecipientResponse(r)
	return &resp, nil
}

// Update replaces a recipient of a letter
func (s *RecipientService) Update(ctx context.Context, tenantID, letterID, id uuid.UUID, req RecipientRequest) (*RecipientResponse, error) {
	r, err := s.find(ctx, tenantID, letterID, id)
	if err != nil {
		return nil, err
	}
	if err := r.Update(letter.RecipientType(req.RecipientType), req.Name, letter.DeliveryMethod(req.DeliveryMethod)); err != nil {
		return nil, err
	}
	if err := applyRecipient(r, req); err != nil {
		return nil, err
	}
	if err := s.recipients.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRecipientResponse(r)
	return &resp, nil
}

// List returns the recipients of a letter
func (s *RecipientService) List(ctx context.Context, tenantID, letterID uuid.UUID) ([]RecipientResponse, error) {
	rows, err := s.recipients.ListByLetter(ctx, tenantID, letterID)
	if err != nil {
		return nil, err
	}
	out := make([]RecipientResponse, len(rows))
	for i := range rows {
		out[i] = ToRecipientResponse(&rows[i])
	}
	return out, nil
}

// Remove deletes a recipient of a letter
func (s *RecipientService) Remove(ctx context.Context, tenantID, letterID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, letterID, id); err != nil {
		return err
	}
	return s.recipients.DeleteForTenant(ctx, tenantID, id)
}

func (s *RecipientService) find(ctx context.Context, tenantID, letterID, id uuid.UUID) (*letter.Recipient, error) {
	r, err := s.recipients.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errRecipientNotFound
		}
		return nil, err
	}
	if r.LetterID != letterID {
		return nil, errRecipientNotFound
	}
	return r, nil
}

func applyRecipient(r *letter.Recipient, req RecipientRequest) error {
	r.Position = req.Position
	r.Organization = req.Organization
	r.Address = req.Address
	r.Phone = req.Phone
	r.Email = req.Email
	r.IsPrimary = req.IsPrimary
	if req.DeliveryDate != nil {
		r.MarkDelivered(*req.DeliveryDate)
	}
	if req.ReceivedDate != nil {
		return r.MarkReceived(*req.ReceivedDate)
	}
	return nil
}
