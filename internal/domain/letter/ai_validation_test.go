package letter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRules(t *testing.T) {
	t.Run("short content is an error", func(t *testing.T) {
		f := CheckRules("halo")
		assert.True(t, f.HasErrors())
	})

	t.Run("well formed letter has no findings", func(t *testing.T) {
		f := CheckRules("Kepada Yth. Bapak Camat, dengan hormat kami sampaikan. Hormat kami")
		assert.False(t, f.HasErrors())
		assert.Empty(t, f.Warnings)
	})

	t.Run("missing salutations are warnings", func(t *testing.T) {
		f := CheckRules("Dengan ini menerangkan bahwa yang bersangkutan benar warga desa.")
		assert.False(t, f.HasErrors())
		assert.Len(t, f.Warnings, 2)
	})

	t.Run("very long content is a warning", func(t *testing.T) {
		f := CheckRules("Kepada " + strings.Repeat("a", 10001) + " Wassalam")
		assert.False(t, f.HasErrors())
		assert.Len(t, f.Warnings, 1)
	})
}

func TestAIValidation_Passes(t *testing.T) {
	l := newDraft(t)

	v := NewAIValidation(l, "d1")
	assert.False(t, v.Passes(0.8))

	v.Complete(ValidationResult{ConfidenceScore: 0.9}, RuleFindings{}, time.Second)
	assert.True(t, v.Passes(0.8))
	assert.Equal(t, int64(1000), v.ProcessingTimeMS)
	assert.False(t, v.Passes(0.95))

	v.Complete(ValidationResult{ConfidenceScore: 0.9}, RuleFindings{Errors: []string{"x"}}, 0)
	assert.False(t, v.Passes(0.8))

	v.Complete(ValidationResult{ConfidenceScore: 1.7}, RuleFindings{}, 0)
	assert.Equal(t, 1.0, v.ConfidenceScore)

	v.Fail("timeout", 0)
	assert.False(t, v.Passes(0))

	v.Skip("not required")
	assert.True(t, v.Passes(1))
	assert.Equal(t, 1.0, v.ConfidenceScore)

	v.Restart("d2")
	assert.Equal(t, ValidationPending, v.Status)
	assert.Equal(t, "d2", v.ContentDigest)
	assert.Nil(t, v.ValidatedAt)
}

func TestCheckApprovalGate(t *testing.T) {
	l := newDraft(t)
	s := NewDefaultSettings(l.TenantID, "", "https://desa.example")

	passing := NewAIValidation(l, "d1")
	passing.Complete(ValidationResult{ConfidenceScore: 0.85}, RuleFindings{}, 0)

	failing := NewAIValidation(l, "d1")
	failing.Complete(ValidationResult{ConfidenceScore: 0.5}, RuleFindings{}, 0)

	assert.ErrorIs(t, CheckApprovalGate(s, l, nil, "d1"), ErrAIValidationRequired)
	assert.ErrorIs(t, CheckApprovalGate(s, l, failing, "d1"), ErrAIValidationRequired)
	assert.NoError(t, CheckApprovalGate(s, l, passing, "d1"))

	t.Run("validation of older content does not count", func(t *testing.T) {
		assert.ErrorIs(t, CheckApprovalGate(s, l, passing, "d2"), ErrAIValidationRequired)
	})

	t.Run("disabled in settings", func(t *testing.T) {
		off := *s
		off.EnableAIValidation = false
		assert.NoError(t, CheckApprovalGate(&off, l, nil, "d1"))
	})

	t.Run("not required by letter", func(t *testing.T) {
		other := newDraft(t)
		require.NoError(t, other.SetRequirements(false, true))
		assert.NoError(t, CheckApprovalGate(s, other, nil, "d1"))
	})

}

func TestBodyDigest(t *testing.T) {
	l := &Letter{Subject: "Keterangan", Content: "Isi surat"}
	base := BodyDigest(l)
	assert.Len(t, base, 64)

	number := "SKD/001/03/2026"
	numbered := &Letter{Subject: l.Subject, Content: l.Content, LetterNumber: &number}
	assert.Equal(t, base, BodyDigest(numbered), "number does not affect the digest")

	edited := &Letter{Subject: l.Subject, Content: "Isi surat."}
	assert.NotEqual(t, base, BodyDigest(edited))

	shifted := &Letter{Subject: "Keterangan Isi", Content: " surat"}
	assert.NotEqual(t, base, BodyDigest(shifted))
}
