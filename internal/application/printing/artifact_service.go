package printing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/cache"
	infra "github.com/pulosarok/desa/internal/infrastructure/printing"
	"github.com/pulosarok/desa/internal/infrastructure/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultLockTTL   = 2 * time.Minute
	lockPollInterval = 200 * time.Millisecond
	defaultSweepSize = 200
)

var (
	errLetterNotFound  = shared.NewDomainError("NOT_FOUND", "Letter not found")
	errInvalidKind     = shared.NewDomainError("INVALID_ARTIFACT", "Artifact kind must be pdf or qr")
	errNotNumbered     = shared.NewDomainError("LETTER_NOT_NUMBERED", "Letter has no number yet")
	errNotPrintable    = shared.NewDomainError("LETTER_NOT_PRINTABLE", "Only approved or completed letters can be printed")
	errRendererMissing = shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured")
)

// SettingsSource returns the active letter settings of a tenant
type SettingsSource interface {
	Active(ctx context.Context, tenantID uuid.UUID) (*letter.Settings, error)
}

// Metrics records artifact cache behaviour
type Metrics interface {
	ArtifactLookup(ctx context.Context, kind string, hit bool)
	ArtifactRendered(ctx context.Context, kind string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ArtifactLookup(context.Context, string, bool)            {}
func (nopMetrics) ArtifactRendered(context.Context, string, time.Duration) {}

// ArtifactServiceDeps groups the collaborators of ArtifactService
type ArtifactServiceDeps struct {
	Letters   letter.LetterRepository
	Types     letter.LetterTypeRepository
	Artifacts letter.ArtifactRepository
	Residents reference.PendudukRepository
	Settings  SettingsSource
	Store     storage.Store
	// Renderer may be nil, in which case only QR codes are served
	Renderer infra.PDFRenderer
	Locker   cache.Locker
	Metrics  Metrics
	Logger   *zap.Logger
	// LockTTL bounds how long one replica may hold a render lock
	LockTTL time.Duration
	// Paper is the sheet size of rendered letters; defaults to A4
	Paper infra.Paper
	// SweepBatch caps how many stale artifacts one sweep removes
	SweepBatch int
}

// ArtifactService serves letter PDFs and QR codes from object storage, rendering
// them on a miss. Artifacts are keyed on a hash of everything they show, so a
// changed letter or letterhead yields a new key and old files are swept later.
// Concurrent requests for the same key render once: in-process through
// singleflight and across replicas through the locker.
type ArtifactService struct {
	deps  ArtifactServiceDeps
	group singleflight.Group
}

// NewArtifactService creates a new ArtifactService
func NewArtifactService(deps ArtifactServiceDeps) *ArtifactService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Locker == nil {
		deps.Locker = cache.NewMemoryLocker()
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = defaultLockTTL
	}
	if !deps.Paper.IsValid() {
		deps.Paper = infra.PaperA4
	}
	if deps.SweepBatch <= 0 {
		deps.SweepBatch = defaultSweepSize
	}
	return &ArtifactService{deps: deps}
}

// snapshot is everything a render needs, loaded once per request
type snapshot struct {
	letter   *letter.Letter
	typ      *letter.LetterType
	settings *letter.Settings
	// applicant is nil for QR codes and for letters whose resident was removed
	applicant *reference.Penduduk
	kind      letter.ArtifactKind
	hash      string
}

// Get returns the artifact of the given kind for a letter
func (s *ArtifactService) Get(ctx context.Context, tenantID, letterID uuid.UUID, kind letter.ArtifactKind) (*ArtifactFile, error) {
	snap, err := s.load(ctx, tenantID, letterID, kind)
	if err != nil {
		return nil, err
	}
	key := letter.ArtifactStorageKey(tenantID, letterID, kind, snap.hash)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.lookupOrRender(ctx, snap)
	})
	if err != nil {
		return nil, err
	}
	// singleflight shares one value between callers
	out := *v.(*ArtifactFile)
	return &out, nil
}

// GetPDF returns the printable letter
func (s *ArtifactService) GetPDF(ctx context.Context, tenantID, letterID uuid.UUID) (*ArtifactFile, error) {
	return s.Get(ctx, tenantID, letterID, letter.ArtifactPDF)
}

// GetQR returns the verification QR code
func (s *ArtifactService) GetQR(ctx context.Context, tenantID, letterID uuid.UUID) (*ArtifactFile, error) {
	return s.Get(ctx, tenantID, letterID, letter.ArtifactQR)
}

// DownloadURL renders the artifact when needed and returns a presigned URL to it
func (s *ArtifactService) DownloadURL(ctx context.Context, tenantID, letterID uuid.UUID, kind letter.ArtifactKind, ttl time.Duration) (*ArtifactURLResponse, error) {
	file, err := s.Get(ctx, tenantID, letterID, kind)
	if err != nil {
		return nil, err
	}
	url, expires, err := s.deps.Store.PresignDownload(ctx, letter.ArtifactStorageKey(tenantID, letterID, kind, file.Hash), ttl)
	if err != nil {
		return nil, err
	}
	return &ArtifactURLResponse{LetterID: letterID, Kind: string(kind), Hash: file.Hash, URL: url, ExpiresAt: expires}, nil
}

// Prewarm renders every artifact kind a letter currently supports
func (s *ArtifactService) Prewarm(ctx context.Context, tenantID, letterID uuid.UUID) error {
	var errs []error
	for _, kind := range []letter.ArtifactKind{letter.ArtifactQR, letter.ArtifactPDF} {
		_, err := s.Get(ctx, tenantID, letterID, kind)
		switch {
		case err == nil:
		case errors.Is(err, errNotPrintable), errors.Is(err, errNotNumbered), errors.Is(err, errRendererMissing):
		default:
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}

// SweepStale deletes superseded artifacts and their objects
func (s *ArtifactService) SweepStale(ctx context.Context) (*SweepResult, error) {
	rows, err := s.deps.Artifacts.ListStale(ctx, s.deps.SweepBatch)
	if err != nil {
		return nil, fmt.Errorf("list stale artifacts: %w", err)
	}
	res := &SweepResult{Scanned: len(rows)}
	for _, a := range rows {
		if err := s.deps.Store.Delete(ctx, a.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.deps.Logger.Warn("Failed to delete stale artifact object", zap.String("key", a.StorageKey), zap.Error(err))
			res.Failed++
			continue
		}
		if err := s.deps.Artifacts.Delete(ctx, a.ID); err != nil {
			s.deps.Logger.Warn("Failed to delete stale artifact row", zap.String("artifact_id", a.ID.String()), zap.Error(err))
			res.Failed++
			continue
		}
		res.Deleted++
	}
	if res.Deleted > 0 || res.Failed > 0 {
		s.deps.Logger.Info("Swept stale artifacts",
			zap.Int("deleted", res.Deleted),
			zap.Int("failed", res.Failed))
	}
	return res, nil
}

// Sweep adapts SweepStale to the scheduler's task signature
func (s *ArtifactService) Sweep(ctx context.Context) error {
	_, err := s.SweepStale(ctx)
	return err
}

func (s *ArtifactService) load(ctx context.Context, tenantID, letterID uuid.UUID, kind letter.ArtifactKind) (*snapshot, error) {
	if !kind.IsValid() {
		return nil, errInvalidKind
	}
	l, err := s.deps.Letters.FindByIDForTenant(ctx, tenantID, letterID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	if l.LetterNumber == nil {
		return nil, errNotNumbered
	}
	if kind == letter.ArtifactPDF {
		if l.Status != letter.StatusApproved && l.Status != letter.StatusCompleted {
			return nil, errNotPrintable
		}
		if s.deps.Renderer == nil {
			return nil, errRendererMissing
		}
	}
	lt, err := s.deps.Types.FindByIDForTenant(ctx, tenantID, l.LetterTypeID)
	if err != nil {
		return nil, fmt.Errorf("load letter type: %w", err)
	}
	settings, err := s.deps.Settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var applicant *reference.Penduduk
	if kind == letter.ArtifactPDF {
		applicant, err = s.deps.Residents.FindByIDForTenant(ctx, tenantID, l.ApplicantID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			applicant = nil
		}
	}

	digest, err := artifactDigest(kind, l, lt, applicant, settings)
	if err != nil {
		return nil, err
	}
	return &snapshot{
		letter:    l,
		typ:       lt,
		settings:  settings,
		applicant: applicant,
		kind:      kind,
		hash:      letter.ArtifactHash(kind, digest, settings.Version),
	}, nil
}

// artifactDigest hashes what the artifact shows. The QR only encodes the
// verification URL. The PDF also shows the signed content, signature state,
// type name and applicant identity. Letterhead changes are covered by the
// settings version in ArtifactHash.
func artifactDigest(kind letter.ArtifactKind, l *letter.Letter, lt *letter.LetterType, applicant *reference.Penduduk, settings *letter.Settings) (string, error) {
	parts := []string{settings.VerificationURL(l.PublicCode)}
	if kind == letter.ArtifactPDF {
		content, err := letter.ContentDigest(l)
		if err != nil {
			return "", err
		}
		parts = append(parts, content, l.SignatureHash, string(l.Status), lt.Name)
		if applicant != nil {
			parts = append(parts, applicant.Name, applicant.NIK, applicant.Address)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:]), nil
}

func (s *ArtifactService) lookupOrRender(ctx context.Context, snap *snapshot) (*ArtifactFile, error) {
	kind := string(snap.kind)
	if file, ok := s.cached(ctx, snap); ok {
		s.deps.Metrics.ArtifactLookup(ctx, kind, true)
		return file, nil
	}
	s.deps.Metrics.ArtifactLookup(ctx, kind, false)

	lockKey := "artifact:" + snap.letter.ID.String() + ":" + kind + ":" + snap.hash
	waitCtx, cancel := context.WithTimeout(ctx, s.deps.LockTTL)
	defer cancel()
	release, err := cache.WaitAcquire(waitCtx, s.deps.Locker, lockKey, s.deps.LockTTL, lockPollInterval)
	if err != nil {
		return nil, fmt.Errorf("wait for render lock: %w", err)
	}
	defer release()

	// another replica may have finished while we waited
	if file, ok := s.cached(ctx, snap); ok {
		return file, nil
	}
	return s.render(ctx, snap)
}

func (s *ArtifactService) cached(ctx context.Context, snap *snapshot) (*ArtifactFile, bool) {
	l := snap.letter
	row, err := s.deps.Artifacts.Find(ctx, l.TenantID, l.ID, snap.kind, snap.hash)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.deps.Logger.Warn("Artifact lookup failed", zap.String("letter_id", l.ID.String()), zap.Error(err))
		}
		return nil, false
	}
	data, err := s.deps.Store.Get(ctx, row.StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.deps.Logger.Warn("Artifact object read failed", zap.String("key", row.StorageKey), zap.Error(err))
		}
		return nil, false
	}
	return s.file(snap, data, true), true
}

func (s *ArtifactService) render(ctx context.Context, snap *snapshot) (*ArtifactFile, error) {
	start := time.Now()
	l := snap.letter

	qr, err := infra.QRCodePNG(snap.settings.VerificationURL(l.PublicCode), infra.QRSize)
	if err != nil {
		return nil, err
	}
	data := qr
	if snap.kind == letter.ArtifactPDF {
		data, err = s.renderPDF(ctx, snap, qr)
		if err != nil {
			return nil, err
		}
	}

	row := letter.NewArtifact(l, snap.kind, snap.hash, int64(len(data)))
	if err := s.deps.Store.Put(ctx, row.StorageKey, data, row.ContentType); err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}
	if err := s.deps.Artifacts.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("record artifact: %w", err)
	}

	elapsed := time.Since(start)
	s.deps.Metrics.ArtifactRendered(ctx, string(snap.kind), elapsed)
	s.deps.Logger.Info("Artifact rendered",
		zap.String("letter_id", l.ID.String()),
		zap.String("kind", string(snap.kind)),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", elapsed))
	return s.file(snap, data, false), nil
}

func (s *ArtifactService) renderPDF(ctx context.Context, snap *snapshot, qr []byte) ([]byte, error) {
	l, settings := snap.letter, snap.settings
	doc := &infra.LetterDocument{
		VillageName:     settings.VillageName,
		VillageAddress:  settings.VillageAddress,
		VillagePhone:    settings.VillagePhone,
		VillageEmail:    settings.VillageEmail,
		VillageWebsite:  settings.VillageWebsite,
		HeadName:        settings.HeadName,
		HeadNIP:         settings.HeadNIP,
		LetterNumber:    l.Number(),
		TypeName:        snap.typ.Name,
		Subject:         l.Subject,
		Content:         l.Content,
		IssuedAt:        issuedAt(l),
		VerificationURL: settings.VerificationURL(l.PublicCode),
		QRPNG:           qr,
		DigitallySigned: l.IsDigitallySigned,
		SignatureHash:   l.SignatureHash,
	}
	if p := snap.applicant; p != nil {
		doc.ApplicantName = p.Name
		doc.ApplicantNIK = p.NIK
		doc.ApplicantAddress = p.Address
	}

	html, err := infra.RenderLetterHTML(doc)
	if err != nil {
		return nil, err
	}
	out, err := s.deps.Renderer.Render(ctx, &infra.RenderRequest{
		HTML:    html,
		Paper:   s.deps.Paper,
		Margins: infra.LetterMargins(),
		Title:   l.Number() + " - " + l.Subject,
	})
	if err != nil {
		s.deps.Logger.Error("PDF rendering failed", zap.String("letter_id", l.ID.String()), zap.Error(err))
		return nil, err
	}
	return out.PDFData, nil
}

func (s *ArtifactService) file(snap *snapshot, data []byte, cached bool) *ArtifactFile {
	name := strings.NewReplacer("/", "-", " ", "_").Replace(snap.letter.Number())
	return &ArtifactFile{
		Data:        data,
		ContentType: snap.kind.ContentType(),
		FileName:    name + snap.kind.Extension(),
		Hash:        snap.hash,
		Cached:      cached,
	}
}

func issuedAt(l *letter.Letter) time.Time {
	if l.ApprovalDate != nil {
		return *l.ApprovalDate
	}
	if l.SubmissionDate != nil {
		return *l.SubmissionDate
	}
	return l.CreatedAt
}
