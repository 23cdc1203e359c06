package letter

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestLetterService_Create(t *testing.T) {
	f := newFixture()

	resp := f.draft("Keterangan domisili", validBody)

	assert.Equal(t, string(letter.StatusDraft), resp.Status)
	assert.Empty(t, resp.LetterNumber)
	assert.Len(t, resp.PublicCode, 8)
	assert.Positive(t, resp.WordCount)
	assert.Equal(t, []letter.TrackingAction{letter.ActionCreated}, f.tracking.actions(resp.ID))
	assert.Equal(t, []string{letter.EventTypeLetterCreated}, f.events.types())

	stored, err := f.letters.FindByIDForTenant(context.Background(), f.tenantID, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, operator.ID, *stored.CreatedBy)
}

func TestLetterService_Create_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown letter type", func(t *testing.T) {
		f := newFixture()
		_, err := f.letterSvc.Create(ctx, f.tenantID, operator, CreateLetterRequest{
			LetterTypeID: uuid.New(), ApplicantID: f.applicant.ID, Subject: "x", Content: validBody,
		})
		assertCode(t, err, "INVALID_LETTER_TYPE")
	})

	t.Run("inactive letter type", func(t *testing.T) {
		f := newFixture()
		f.letterType.SetActive(false)
		_, err := f.letterSvc.Create(ctx, f.tenantID, operator, CreateLetterRequest{
			LetterTypeID: f.letterType.ID, ApplicantID: f.applicant.ID, Subject: "x", Content: validBody,
		})
		assertCode(t, err, "LETTER_TYPE_INACTIVE")
	})

	t.Run("applicant not registered", func(t *testing.T) {
		f := newFixture()
		_, err := f.letterSvc.Create(ctx, f.tenantID, operator, CreateLetterRequest{
			LetterTypeID: f.letterType.ID, ApplicantID: uuid.New(), Subject: "x", Content: validBody,
		})
		assertCode(t, err, "APPLICANT_NOT_FOUND")
	})

	t.Run("applicant of another tenant", func(t *testing.T) {
		f := newFixture()
		other := newFixture()
		_, err := f.letterSvc.Create(ctx, f.tenantID, operator, CreateLetterRequest{
			LetterTypeID: f.letterType.ID, ApplicantID: other.applicant.ID, Subject: "x", Content: validBody,
		})
		assertCode(t, err, "APPLICANT_NOT_FOUND")
	})
}

func TestLetterService_Create_FromTemplate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tmpl, err := letter.NewTemplate(f.tenantID, "Domisili", letter.TemplateCertificate,
		"Kepada Yth. {{ tujuan }}, menerangkan bahwa {{nama}} berdomisili di desa kami. Hormat kami.")
	require.NoError(t, err)
	f.templates.rows[tmpl.ID] = tmpl

	resp, err := f.letterSvc.Create(ctx, f.tenantID, operator, CreateLetterRequest{
		LetterTypeID: f.letterType.ID,
		ApplicantID:  f.applicant.ID,
		Subject:      "Keterangan domisili",
		TemplateID:   &tmpl.ID,
		Variables:    map[string]string{"tujuan": "Camat", "nama": "Siti Aminah"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Kepada Yth. Camat, menerangkan bahwa Siti Aminah berdomisili di desa kami. Hormat kami.", resp.Content)
	require.NotNil(t, resp.TemplateID)
	assert.Equal(t, tmpl.ID, *resp.TemplateID)
	assert.Equal(t, 1, tmpl.UsageCount)
}

func TestLetterService_SubmitAssignsSequentialNumbers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.draft("Pertama", validBody)
	second := f.draft("Kedua", validBody)

	a, err := f.letterSvc.Submit(ctx, f.tenantID, first.ID, operator)
	require.NoError(t, err)
	b, err := f.letterSvc.Submit(ctx, f.tenantID, second.ID, operator)
	require.NoError(t, err)

	assert.Equal(t, "SKD/001/03/2026", a.LetterNumber)
	assert.Equal(t, "SKD/002/03/2026", b.LetterNumber)
	assert.Equal(t, string(letter.StatusSubmitted), a.Status)
	require.NotNil(t, a.SubmissionDate)
	assert.Equal(t, f.now, *a.SubmissionDate)
	assert.Equal(t, []letter.TrackingAction{letter.ActionCreated, letter.ActionSubmitted}, f.tracking.actions(first.ID))

	stats, err := f.letterSvc.Stats(ctx, f.tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 2, stats.ByStatus[string(letter.StatusSubmitted)])
	assert.EqualValues(t, 0, stats.ByStatus[string(letter.StatusDraft)])
	assert.EqualValues(t, 2, stats.IssuedThisYear)
	assert.EqualValues(t, 2, stats.LastNumber)
}

func TestLetterService_SubmitTwiceKeepsNumberAndCounter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Sekali saja", validBody)

	first, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	_, err = f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	assertCode(t, err, "INVALID_STATE")
	assert.Equal(t, 1, f.sequences.calls)

	got, err := f.letterSvc.GetByID(ctx, f.tenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, first.LetterNumber, got.LetterNumber)
}

func TestLetterService_SubmitUnknownLetter(t *testing.T) {
	f := newFixture()
	_, err := f.letterSvc.Submit(context.Background(), f.tenantID, uuid.New(), operator)
	assert.ErrorIs(t, err, errLetterNotFound)
	assert.Zero(t, f.sequences.calls)
}

func TestLetterService_ApproveRequiresPassingValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Keterangan", validBody)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, kades)
	assert.ErrorIs(t, err, letter.ErrAIValidationRequired)

	v := f.passValidation(d.ID, 0.92)
	assert.True(t, v.Passed)

	approved, err := f.letterSvc.Approve(ctx, f.tenantID, d.ID, kades)
	require.NoError(t, err)
	assert.Equal(t, string(letter.StatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, kades.ID, *approved.ApprovedBy)
	assert.Equal(t, []letter.TrackingAction{
		letter.ActionCreated, letter.ActionSubmitted, letter.ActionValidated, letter.ActionApproved,
	}, f.tracking.actions(d.ID))
}

func TestLetterService_ValidationOfDraftSurvivesNumbering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Keterangan", validBody)

	f.passValidation(d.ID, 0.95)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, admin)
	assert.NoError(t, err)
}

func TestLetterService_ApproveRejectsLowScoreAndStaleValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("below threshold", func(t *testing.T) {
		f := newFixture()
		d := f.draft("Keterangan", validBody)
		_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
		require.NoError(t, err)

		v := f.passValidation(d.ID, 0.5)
		assert.False(t, v.Passed)
		_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, kades)
		assert.ErrorIs(t, err, letter.ErrAIValidationRequired)
	})

	t.Run("content edited after validation", func(t *testing.T) {
		f := newFixture()
		d := f.draft("Keterangan", validBody)
		_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
		require.NoError(t, err)
		f.passValidation(d.ID, 0.95)

		edited := validBody + " Tambahan keterangan."
		_, err = f.letterSvc.Update(ctx, f.tenantID, d.ID, UpdateLetterRequest{Content: &edited})
		require.NoError(t, err)

		_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, kades)
		assert.ErrorIs(t, err, letter.ErrAIValidationRequired)
	})
}

func TestLetterService_ApproveWithoutRequiredValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	off := false
	d, err := f.letterSvc.Create(ctx, f.tenantID, operator, CreateLetterRequest{
		LetterTypeID:         f.letterType.ID,
		ApplicantID:          f.applicant.ID,
		Subject:              "Tanpa validasi",
		Content:              validBody,
		RequiresAIValidation: &off,
	})
	require.NoError(t, err)
	_, err = f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, kades)
	assert.NoError(t, err)
}

func TestLetterService_DecisionsNeedApproverRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Keterangan", validBody)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, operator)
	assertCode(t, err, "FORBIDDEN")
	_, err = f.letterSvc.Reject(ctx, f.tenantID, d.ID, operator, "Data kurang")
	assertCode(t, err, "FORBIDDEN")
}

func TestLetterService_ReviewRejectAndCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Keterangan", validBody)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	reviewing, err := f.letterSvc.StartReview(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)
	assert.Equal(t, string(letter.StatusInReview), reviewing.Status)

	_, err = f.letterSvc.Reject(ctx, f.tenantID, d.ID, kades, "  ")
	assertCode(t, err, "REJECTION_REASON_REQUIRED")

	rejected, err := f.letterSvc.Reject(ctx, f.tenantID, d.ID, kades, "Lampiran KK belum ada")
	require.NoError(t, err)
	assert.Equal(t, "Lampiran KK belum ada", rejected.RejectionReason)

	_, err = f.letterSvc.Cancel(ctx, f.tenantID, d.ID, operator, "batal")
	assertCode(t, err, "INVALID_STATE")
}

func TestLetterService_Complete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Keterangan", validBody)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)

	_, err = f.letterSvc.Complete(ctx, f.tenantID, d.ID, operator)
	assertCode(t, err, "INVALID_STATE")

	f.passValidation(d.ID, 0.9)
	_, err = f.letterSvc.Approve(ctx, f.tenantID, d.ID, kades)
	require.NoError(t, err)
	done, err := f.letterSvc.Complete(ctx, f.tenantID, d.ID, operator)
	require.NoError(t, err)
	assert.Equal(t, string(letter.StatusCompleted), done.Status)
	assert.NotNil(t, done.CompletionDate)
}

func TestLetterService_DeleteOnlyDrafts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	kept := f.draft("Diajukan", validBody)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, kept.ID, operator)
	require.NoError(t, err)
	assertCode(t, f.letterSvc.Delete(ctx, f.tenantID, kept.ID), "LETTER_NOT_DELETABLE")

	gone := f.draft("Draf", validBody)
	require.NoError(t, f.letterSvc.Delete(ctx, f.tenantID, gone.ID))
	_, err = f.letterSvc.GetByID(ctx, f.tenantID, gone.ID)
	assert.ErrorIs(t, err, errLetterNotFound)
}

func TestLetterService_TenantIsolation(t *testing.T) {
	f := newFixture()
	d := f.draft("Rahasia", validBody)

	_, err := f.letterSvc.GetByID(context.Background(), uuid.New(), d.ID)
	assert.ErrorIs(t, err, errLetterNotFound)
}

func TestLetterService_TimelineAndManualTracking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.draft("Keterangan", validBody)

	entry, err := f.letterSvc.AddTracking(ctx, f.tenantID, d.ID, operator, TrackingRequest{Action: "sent", Notes: "via kurir"})
	require.NoError(t, err)
	assert.Equal(t, "Surat dikirim", entry.Description)

	timeline, err := f.letterSvc.Timeline(ctx, f.tenantID, d.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "created", timeline[0].Action)
	assert.Equal(t, "sent", timeline[1].Action)
	assert.Equal(t, "via kurir", timeline[1].Notes)

	_, err = f.letterSvc.AddTracking(ctx, f.tenantID, d.ID, operator, TrackingRequest{Action: "teleported"})
	assertCode(t, err, "INVALID_TRACKING_ACTION")
}

func TestLetterService_ListFiltersByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.draft("A", validBody)
	f.draft("B", validBody)
	_, err := f.letterSvc.Submit(ctx, f.tenantID, a.ID, operator)
	require.NoError(t, err)

	status := string(letter.StatusSubmitted)
	rows, total, err := f.letterSvc.List(ctx, f.tenantID, ListLettersRequest{Status: status}.Filter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)
}
