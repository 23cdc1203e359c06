package letter

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	content := "Yang bertanda tangan di bawah ini menerangkan {{nama}} ({{ nik }}) tinggal di {{  dusun}}. {{nama}}"

	got := RenderTemplate(content, map[string]string{
		"nama":  "Siti Aminah",
		"nik":   "1101010101010001",
		"dusun": "Dusun Mawar",
	})
	assert.Equal(t, "Yang bertanda tangan di bawah ini menerangkan Siti Aminah (1101010101010001) tinggal di Dusun Mawar. Siti Aminah", got)

	t.Run("missing variables are left in place", func(t *testing.T) {
		got := RenderTemplate("Halo {{ nama }}, {{ gelar }}", map[string]string{"nama": "Budi"})
		assert.Equal(t, "Halo Budi, {{ gelar }}", got)
	})
}

func TestTemplateVariables(t *testing.T) {
	vars := TemplateVariables("{{a}} {{ b }} {{a}} {{c_1}} {{ 1x }}")
	assert.Equal(t, []string{"a", "b", "c_1"}, vars)
}

func TestNewTemplate(t *testing.T) {
	tpl, err := NewTemplate(uuid.New(), "Domisili", TemplateCertificate, "Menerangkan {{nama}}")
	require.NoError(t, err)
	assert.Equal(t, []string{"nama"}, tpl.Variables)
	assert.True(t, tpl.IsActive)

	tpl.RecordUsage()
	tpl.RecordUsage()
	assert.Equal(t, 2, tpl.UsageCount)
	assert.Equal(t, "Menerangkan Ani", tpl.Render(map[string]string{"nama": "Ani"}))

	_, err = NewTemplate(uuid.New(), "", TemplateCustom, "x")
	assert.Error(t, err)
	_, err = NewTemplate(uuid.New(), "x", TemplateType("memo"), "x")
	assert.Error(t, err)
}

func TestNewAttachment(t *testing.T) {
	tenantID, letterID := uuid.New(), uuid.New()

	a, err := NewAttachment(tenantID, letterID, "KTP", "scan KTP.JPG", 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", a.ContentType)
	assert.Contains(t, a.StorageKey, letterID.String()+"/attachments/")
	assert.False(t, a.Uploaded)

	_, err = NewAttachment(tenantID, letterID, "KTP", "malware.exe", 10)
	assert.Error(t, err)
	_, err = NewAttachment(tenantID, letterID, "KTP", "ktp.pdf", MaxAttachmentSize+1)
	assert.Error(t, err)
	_, err = NewAttachment(tenantID, letterID, "", "ktp.pdf", 10)
	assert.Error(t, err)
}
