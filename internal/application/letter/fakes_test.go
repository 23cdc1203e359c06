package letter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/ai"
	"github.com/stretchr/testify/mock"
)

// memLetters stores copies so callers only see what was saved
type memLetters struct {
	letter.LetterRepository
	mu   sync.Mutex
	rows map[uuid.UUID]letter.Letter
}

func newMemLetters() *memLetters {
	return &memLetters{rows: map[uuid.UUID]letter.Letter{}}
}

func (m *memLetters) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*letter.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok || l.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	l.ClearDomainEvents()
	return &l, nil
}

func (m *memLetters) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*letter.Letter, error) {
	return m.FindByIDForTenant(ctx, tenantID, id)
}

func (m *memLetters) FindByPublicCode(_ context.Context, tenantID uuid.UUID, code string) (*letter.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.rows {
		if l.TenantID == tenantID && l.PublicCode == code {
			l.ClearDomainEvents()
			return &l, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memLetters) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]letter.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []letter.Letter
	for _, l := range m.rows {
		if l.TenantID != tenantID {
			continue
		}
		if st, ok := filter.Filters["status"]; ok && string(l.Status) != fmt.Sprint(st) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memLetters) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	rows, err := m.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(rows)), err
}

func (m *memLetters) Save(_ context.Context, l *letter.Letter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	cp.ClearDomainEvents()
	m.rows[l.ID] = cp
	return nil
}

func (m *memLetters) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.rows[id]; !ok || l.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memLetters) ExistsForType(_ context.Context, tenantID, typeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.rows {
		if l.TenantID == tenantID && l.LetterTypeID == typeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLetters) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[letter.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[letter.Status]int64{}
	for _, l := range m.rows {
		if l.TenantID == tenantID {
			out[l.Status]++
		}
	}
	return out, nil
}

func (m *memLetters) CountIssuedSince(_ context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.rows {
		if l.TenantID == tenantID && l.LetterNumber != nil && !l.SubmissionDate.Before(since) {
			n++
		}
	}
	return n, nil
}

type memSequences struct {
	mu       sync.Mutex
	counters map[string]int64
	calls    int
}

func newMemSequences() *memSequences {
	return &memSequences{counters: map[string]int64{}}
}

func (m *memSequences) Next(_ context.Context, tenantID uuid.UUID, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	key := fmt.Sprintf("%s/%d", tenantID, year)
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memSequences) Current(_ context.Context, tenantID uuid.UUID, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[fmt.Sprintf("%s/%d", tenantID, year)], nil
}

type memTracking struct {
	mu      sync.Mutex
	entries []letter.Tracking
}

func (m *memTracking) Append(_ context.Context, entries ...*letter.Tracking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries = append(m.entries, *e)
	}
	return nil
}

func (m *memTracking) ListByLetter(_ context.Context, tenantID, letterID uuid.UUID) ([]letter.Tracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []letter.Tracking
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.LetterID == letterID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memTracking) actions(letterID uuid.UUID) []letter.TrackingAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []letter.TrackingAction
	for _, e := range m.entries {
		if e.LetterID == letterID {
			out = append(out, e.Action)
		}
	}
	return out
}

type memValidations struct {
	mu   sync.Mutex
	rows map[uuid.UUID]letter.AIValidation
}

func (m *memValidations) FindByLetter(_ context.Context, tenantID, letterID uuid.UUID) (*letter.AIValidation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[letterID]
	if !ok || v.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (m *memValidations) Save(_ context.Context, v *letter.AIValidation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[uuid.UUID]letter.AIValidation{}
	}
	m.rows[v.LetterID] = *v
	return nil
}

type memSignatures struct {
	mu   sync.Mutex
	rows []letter.Signature
}

func (m *memSignatures) FindByLetterAndSigner(_ context.Context, tenantID, letterID, signerID uuid.UUID) (*letter.Signature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.TenantID == tenantID && s.LetterID == letterID && s.SignerID == signerID {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memSignatures) ListByLetter(_ context.Context, tenantID, letterID uuid.UUID) ([]letter.Signature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []letter.Signature
	for _, s := range m.rows {
		if s.TenantID == tenantID && s.LetterID == letterID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSignatures) Save(_ context.Context, sig *letter.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == sig.ID {
			m.rows[i] = *sig
			return nil
		}
	}
	m.rows = append(m.rows, *sig)
	return nil
}

type memTypes struct {
	letter.LetterTypeRepository
	rows map[uuid.UUID]*letter.LetterType
}

func (m *memTypes) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*letter.LetterType, error) {
	lt, ok := m.rows[id]
	if !ok || lt.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return lt, nil
}

type memTemplates struct {
	letter.TemplateRepository
	rows map[uuid.UUID]*letter.Template
}

func (m *memTemplates) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*letter.Template, error) {
	t, ok := m.rows[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (m *memTemplates) Save(_ context.Context, t *letter.Template) error {
	m.rows[t.ID] = t
	return nil
}

type memSettings struct {
	row *letter.Settings
}

func (m *memSettings) FindActive(context.Context, uuid.UUID) (*letter.Settings, error) {
	if m.row == nil {
		return nil, shared.ErrNotFound
	}
	return m.row, nil
}

func (m *memSettings) Save(_ context.Context, s *letter.Settings) error {
	m.row = s
	return nil
}

type memResidents struct {
	reference.PendudukRepository
	rows map[uuid.UUID]*reference.Penduduk
}

func (m *memResidents) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*reference.Penduduk, error) {
	p, ok := m.rows[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

// MockAssistant is a mock implementation of Assistant
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockAssistant) ModelName() string {
	return "gemini-test"
}

func (m *MockAssistant) Validate(ctx context.Context, tenantID uuid.UUID, in ai.ValidateInput) (*ai.ValidateOutput, error) {
	args := m.Called(ctx, tenantID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.ValidateOutput), args.Error(1)
}

func (m *MockAssistant) Improve(ctx context.Context, tenantID uuid.UUID, in ai.ImproveInput) (*ai.ImproveOutput, error) {
	args := m.Called(ctx, tenantID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.ImproveOutput), args.Error(1)
}

func (m *MockAssistant) Generate(ctx context.Context, tenantID uuid.UUID, in ai.GenerateInput) (*ai.GenerateOutput, error) {
	args := m.Called(ctx, tenantID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.GenerateOutput), args.Error(1)
}

func (m *MockAssistant) Summarize(ctx context.Context, tenantID uuid.UUID, in ai.SummarizeInput) (*ai.SummarizeOutput, error) {
	args := m.Called(ctx, tenantID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.SummarizeOutput), args.Error(1)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// fixture wires every letter service against in-memory stores
type fixture struct {
	tenantID  uuid.UUID
	now       time.Time
	letters   *memLetters
	sequences *memSequences
	tracking  *memTracking
	valids    *memValidations
	sigs      *memSignatures
	types     *memTypes
	templates *memTemplates
	settings  *memSettings
	residents *memResidents
	events    *recordingPublisher
	assistant *MockAssistant

	letterType *letter.LetterType
	applicant  *reference.Penduduk

	settingsSvc *SettingsService
	letterSvc   *LetterService
	aiSvc       *AIService
	signSvc     *SignatureService
	templateSvc *TemplateService
	publicSvc   *PublicService
}

const validBody = "Kepada Yth. Bapak Camat, dengan ini kami menerangkan bahwa warga tersebut benar berdomisili di desa kami. Hormat kami."

var (
	admin    = Actor{ID: uuid.New(), Name: "Admin Desa", Role: "admin", IP: "10.0.0.1"}
	operator = Actor{ID: uuid.New(), Name: "Operator", Role: "operator", IP: "10.0.0.2"}
	kades    = Actor{ID: uuid.New(), Name: "Kepala Desa", Role: "kepala_desa", IP: "10.0.0.3"}
)

func newFixture() *fixture {
	tenantID := uuid.New()
	f := &fixture{
		tenantID:  tenantID,
		now:       time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		letters:   newMemLetters(),
		sequences: newMemSequences(),
		tracking:  &memTracking{},
		valids:    &memValidations{},
		sigs:      &memSignatures{},
		types:     &memTypes{rows: map[uuid.UUID]*letter.LetterType{}},
		templates: &memTemplates{rows: map[uuid.UUID]*letter.Template{}},
		settings:  &memSettings{},
		residents: &memResidents{rows: map[uuid.UUID]*reference.Penduduk{}},
		events:    &recordingPublisher{},
		assistant: &MockAssistant{},
	}

	lt, err := letter.NewLetterType(tenantID, "SKD", "Surat Keterangan Domisili")
	if err != nil {
		panic(err)
	}
	f.letterType = lt
	f.types.rows[lt.ID] = lt

	p, err := reference.NewPenduduk(tenantID, "3201010101010001", "Siti Aminah", reference.GenderFemale, uuid.New())
	if err != nil {
		panic(err)
	}
	f.applicant = p
	f.residents.rows[p.ID] = p

	scope := NewNoOpTransactionScope(f.letters, f.sequences, f.tracking, f.valids, f.sigs)
	f.settingsSvc = NewSettingsService(f.settings, SettingsDefaults{VillageName: "Desa Pulosarok", VerificationBaseURL: "https://desa.example"}, nil)
	f.letterSvc = NewLetterService(LetterServiceDeps{
		Scope:       scope,
		Letters:     f.letters,
		Types:       f.types,
		Templates:   f.templates,
		Tracking:    f.tracking,
		Sequences:   f.sequences,
		Validations: f.valids,
		Residents:   f.residents,
		Settings:    f.settingsSvc,
		Events:      f.events,
		Now:         func() time.Time { return f.now },
	})
	f.aiSvc = NewAIService(scope, f.letters, f.types, f.settingsSvc, f.assistant, f.events, nil, nil)
	f.signSvc = NewSignatureService(scope, f.letters, f.sigs, f.settingsSvc, f.events, nil)
	f.templateSvc = NewTemplateService(f.templates, f.letters, f.types, nil)
	f.publicSvc = NewPublicService(f.letters, f.types, f.tracking, f.residents, f.settingsSvc)
	return f
}

func (f *fixture) draft(subject, content string) *LetterResponse {
	resp, err := f.letterSvc.Create(context.Background(), f.tenantID, operator, CreateLetterRequest{
		LetterTypeID: f.letterType.ID,
		ApplicantID:  f.applicant.ID,
		Subject:      subject,
		Content:      content,
	})
	if err != nil {
		panic(err)
	}
	return resp
}

// passValidation makes the assistant score the current body at score
func (f *fixture) passValidation(id uuid.UUID, score float64) *ValidationResponse {
	f.assistant.On("Enabled").Return(true).Maybe()
	f.assistant.On("Validate", mock.Anything, f.tenantID, mock.Anything).
		Return(&ai.ValidateOutput{IsValid: true, Score: score, GrammarScore: score, FormalityScore: score, CompletenessScore: score}, nil).Once()
	resp, err := f.aiSvc.Validate(context.Background(), f.tenantID, id, operator)
	if err != nil {
		panic(err)
	}
	return resp
}
