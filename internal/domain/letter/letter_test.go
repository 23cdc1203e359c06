package letter

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(t *testing.T) *Letter {
	t.Helper()
	l, err := NewLetter(uuid.New(), uuid.New(), uuid.New(), "Surat Keterangan Domisili",
		"Kepada Yth. Bapak Camat. Dengan ini menerangkan bahwa yang bersangkutan berdomisili di desa kami. Hormat kami")
	require.NoError(t, err)
	return l
}

func TestNewLetter(t *testing.T) {
	t.Run("creates draft with derived fields", func(t *testing.T) {
		l := newDraft(t)

		assert.Equal(t, StatusDraft, l.Status)
		assert.Equal(t, PriorityNormal, l.Priority)
		assert.Len(t, l.PublicCode, 8)
		assert.Nil(t, l.LetterNumber)
		assert.Equal(t, "", l.Number())
		assert.Equal(t, 16, l.WordCount)
		assert.Equal(t, 4, l.EstimatedReadingTime)
		assert.True(t, l.RequiresAIValidation)
		require.Len(t, l.GetDomainEvents(), 1)
	})

	t.Run("requires type and applicant", func(t *testing.T) {
		_, err := NewLetter(uuid.New(), uuid.Nil, uuid.New(), "s", "c")
		assert.Error(t, err)
		_, err = NewLetter(uuid.New(), uuid.New(), uuid.Nil, "s", "c")
		assert.Error(t, err)
	})

	t.Run("rejects empty subject or content", func(t *testing.T) {
		_, err := NewLetter(uuid.New(), uuid.New(), uuid.New(), " ", "content")
		assert.Error(t, err)
		_, err = NewLetter(uuid.New(), uuid.New(), uuid.New(), "subject", "  ")
		assert.Error(t, err)
		_, err = NewLetter(uuid.New(), uuid.New(), uuid.New(), strings.Repeat("a", 301), "content")
		assert.Error(t, err)
	})
}

func TestReadingStats(t *testing.T) {
	words, secs := ReadingStats("satu dua")
	assert.Equal(t, 2, words)
	assert.Equal(t, 1, secs)

	words, secs = ReadingStats(strings.Repeat("kata ", 400))
	assert.Equal(t, 400, words)
	assert.Equal(t, 120, secs)

	words, secs = ReadingStats("")
	assert.Equal(t, 0, words)
	assert.Equal(t, 1, secs)
}

func TestLetter_Workflow(t *testing.T) {
	now := time.Now()
	approver := uuid.New()

	t.Run("happy path records every transition", func(t *testing.T) {
		l := newDraft(t)
		l.ClearDomainEvents()

		require.NoError(t, l.Submit("SKD/001/01/2024", "SKD", now, nil))
		assert.Equal(t, "SKD/001/01/2024", l.Number())
		assert.Equal(t, "SKD", l.LetterTypeCode)
		require.NoError(t, l.StartReview(&approver))
		require.NoError(t, l.Approve(approver, now))
		assert.Equal(t, &approver, l.ApprovedBy)
		require.NoError(t, l.Complete(now, &approver))
		assert.Equal(t, StatusCompleted, l.Status)

		entries := TrackingFromEvents(l, "10.0.0.1")
		require.Len(t, entries, 4)
		assert.Equal(t, ActionSubmitted, entries[0].Action)
		assert.Equal(t, ActionReviewed, entries[1].Action)
		assert.Equal(t, ActionApproved, entries[2].Action)
		assert.Equal(t, ActionCompleted, entries[3].Action)
		assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
	})

	t.Run("approve directly from submitted", func(t *testing.T) {
		l := newDraft(t)
		require.NoError(t, l.Submit("N/1", "SKD", now, nil))
		assert.NoError(t, l.Approve(approver, now))
	})

	t.Run("cannot approve a draft", func(t *testing.T) {
		l := newDraft(t)
		err := l.Approve(approver, now)
		assert.Error(t, err)
		assert.Equal(t, StatusDraft, l.Status)
	})

	t.Run("submit requires a number and only once", func(t *testing.T) {
		l := newDraft(t)
		assert.Error(t, l.Submit(" ", "SKD", now, nil))
		require.NoError(t, l.Submit("N/1", "SKD", now, nil))
		assert.Error(t, l.Submit("N/2", "SKD", now, nil))
		assert.Equal(t, "N/1", l.Number())
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		l := newDraft(t)
		require.NoError(t, l.Submit("N/1", "SKD", now, nil))
		assert.Error(t, l.Reject("  ", &approver))
		require.NoError(t, l.Reject("Data tidak lengkap", &approver))
		assert.Equal(t, StatusRejected, l.Status)
		assert.Equal(t, "Data tidak lengkap", l.RejectionReason)
	})

	t.Run("cancel only before decision", func(t *testing.T) {
		l := newDraft(t)
		require.NoError(t, l.Cancel("", nil))
		assert.Equal(t, StatusCancelled, l.Status)

		l = newDraft(t)
		require.NoError(t, l.Submit("N/1", "SKD", now, nil))
		require.NoError(t, l.Approve(approver, now))
		assert.Error(t, l.Cancel("", nil))
	})

	t.Run("complete requires approval", func(t *testing.T) {
		l := newDraft(t)
		require.NoError(t, l.Submit("N/1", "SKD", now, nil))
		assert.Error(t, l.Complete(now, nil))
	})
}

func TestLetter_Editing(t *testing.T) {
	now := time.Now()
	l := newDraft(t)
	l.ClearDomainEvents()

	require.NoError(t, l.UpdateBody("Perihal baru", "Isi yang baru sekali"))
	assert.Equal(t, 4, l.WordCount)
	require.Len(t, l.GetDomainEvents(), 1)
	_, ok := l.GetDomainEvents()[0].(*LetterContentChangedEvent)
	assert.True(t, ok)

	require.NoError(t, l.Submit("N/1", "SKD", now, nil))
	require.NoError(t, l.Approve(uuid.New(), now))
	assert.False(t, l.IsEditable())
	assert.Error(t, l.UpdateBody("x", "y"))
	assert.Error(t, l.SetRequirements(false, false))
}

func TestLetter_Signing(t *testing.T) {
	now := time.Now()
	signer := uuid.New()
	l := newDraft(t)

	assert.False(t, l.CanBeSigned())
	assert.Error(t, l.MarkSigned("abc", signer))

	require.NoError(t, l.Submit("N/1", "SKD", now, nil))
	require.NoError(t, l.Approve(signer, now))
	require.NoError(t, l.MarkSigned("abc", signer))
	assert.True(t, l.IsDigitallySigned)
	assert.False(t, l.IsEditable())
	assert.False(t, l.CanBeDeleted())
}

func TestLetter_SetDetails(t *testing.T) {
	l := newDraft(t)
	require.NoError(t, l.SetDetails("Melamar kerja", PriorityUrgent, ""))
	assert.Equal(t, PriorityUrgent, l.Priority)
	require.NoError(t, l.SetDetails("", "", ""))
	assert.Equal(t, PriorityNormal, l.Priority)
	assert.Error(t, l.SetDetails("", Priority("asap"), ""))
}
