package letter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

// Verification results
const (
	VerifyValid    = "valid"
	VerifyInvalid  = "invalid"
	VerifyUnsigned = "unsigned"
)

var errSignaturesDisabled = shared.NewDomainError("SIGNATURE_DISABLED", "Digital signatures are disabled in letter settings")

// SignatureService signs letters and checks their signatures
type SignatureService struct {
	scope      TransactionScope
	letters    letter.LetterRepository
	signatures letter.SignatureRepository
	settings   *SettingsService
	events     shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSignatureService creates a new SignatureService
func NewSignatureService(
	scope TransactionScope,
	letters letter.LetterRepository,
	signatures letter.SignatureRepository,
	settings *SettingsService,
	events shared.EventPublisher,
	logger *zap.Logger,
) *SignatureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignatureService{
		scope:      scope,
		letters:    letters,
		signatures: signatures,
		settings:   settings,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Sign records the actor's signature over the canonical letter. Signing again
// replaces the actor's previous digest.
func (s *SignatureService) Sign(ctx context.Context, tenantID, id uuid.UUID, actor Actor) (*SignatureResponse, error) {
	if !identity.StaffRole(actor.Role).CanApproveLetters() {
		return nil, errApproverRole
	}
	settings, err := s.settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableDigitalSignature {
		return nil, errSignaturesDisabled
	}

	var (
		l   *letter.Letter
		sig *letter.Signature
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.LetterRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errLetterNotFound
			}
			return err
		}
		if !l.CanBeSigned() {
			return shared.NewDomainError("LETTER_NOT_SIGNABLE", "Only approved or completed letters with a number can be signed")
		}
		digest, err := letter.ContentDigest(l)
		if err != nil {
			return err
		}

		now := s.now()
		sig, err = repos.SignatureRepo().FindByLetterAndSigner(ctx, tenantID, l.ID, actor.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			sig = letter.NewSignature(l, actor.ID, actor.Name, digest, now)
		case err != nil:
			return err
		default:
			sig.Resign(digest, now)
		}
		sig.SignerPosition = signerPosition(actor.Role)
		sig.IPAddress = actor.IP
		sig.UserAgent = actor.UserAgent
		if err := repos.SignatureRepo().Save(ctx, sig); err != nil {
			return err
		}

		if err := l.MarkSigned(digest, actor.ID); err != nil {
			return err
		}
		if err := repos.LetterRepo().Save(ctx, l); err != nil {
			return err
		}
		return repos.TrackingRepo().Append(ctx, letter.TrackingFromEvents(l, actor.IP)...)
	})
	if err != nil {
		return nil, err
	}

	events := l.PullDomainEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish signature events", zap.Error(err))
		}
	}
	s.logger.Info("Letter signed",
		zap.String("letter_id", l.ID.String()),
		zap.String("signer_id", actor.ID.String()))

	resp := ToSignatureResponse(sig)
	return &resp, nil
}

// Verify recomputes the digest of a letter and compares it with the stored one.
// Each signature row records the outcome.
func (s *SignatureService) Verify(ctx context.Context, tenantID, id uuid.UUID) (*VerifyResponse, error) {
	l, err := s.letters.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	resp, computed, err := check(l)
	if err != nil || resp.Result == VerifyUnsigned {
		return resp, err
	}

	rows, err := s.signatures.ListByLetter(ctx, l.TenantID, l.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range rows {
		rows[i].RecordVerification(letter.VerifyDigest(rows[i].SignatureHash, computed), now)
		if err := s.signatures.Save(ctx, &rows[i]); err != nil {
			s.logger.Warn("Failed to record signature verification",
				zap.String("signature_id", rows[i].ID.String()), zap.Error(err))
		}
	}
	resp.Signatures = toSignatureResponses(rows)
	return resp, nil
}

// ListSignatures returns the signatures of a letter
func (s *SignatureService) ListSignatures(ctx context.Context, tenantID, id uuid.UUID) ([]SignatureResponse, error) {
	rows, err := s.signatures.ListByLetter(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toSignatureResponses(rows), nil
}

// check compares the stored digest with a fresh one without writing anything
func check(l *letter.Letter) (*VerifyResponse, string, error) {
	resp := &VerifyResponse{StoredHash: l.SignatureHash, Signatures: []SignatureResponse{}}
	if !l.IsDigitallySigned || l.SignatureHash == "" {
		resp.Result = VerifyUnsigned
		return resp, "", nil
	}
	computed, err := letter.ContentDigest(l)
	if err != nil {
		return nil, "", err
	}
	resp.ComputedHash = computed
	resp.Valid = letter.VerifyDigest(l.SignatureHash, computed)
	resp.Result = VerifyInvalid
	if resp.Valid {
		resp.Result = VerifyValid
	}
	return resp, computed, nil
}

func signerPosition(role string) string {
	if identity.StaffRole(role) == identity.RoleKepalaDesa {
		return "Kepala Desa"
	}
	return "Administrator"
}

func toSignatureResponses(rows []letter.Signature) []SignatureResponse {
	out := make([]SignatureResponse, len(rows))
	for i := range rows {
		out[i] = ToSignatureResponse(&rows[i])
	}
	return out
}
