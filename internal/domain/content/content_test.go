package content

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNews_Lifecycle(t *testing.T) {
	n, err := NewNews(uuid.New(), "Gotong Royong", strings.Repeat("kata ", 100), NewsActivity)
	require.NoError(t, err)
	assert.Equal(t, NewsDraft, n.Status)
	assert.LessOrEqual(t, len(n.Excerpt), excerptLength+3)
	assert.True(t, strings.HasSuffix(n.Excerpt, "..."))

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, n.Publish(first))
	assert.Error(t, n.Publish(first))
	n.Archive()
	require.NoError(t, n.Publish(first.AddDate(0, 0, 1)))
	assert.Equal(t, first, *n.PublishedAt)

	_, err = NewNews(uuid.New(), "x", "y", NewsCategory("gosip"))
	assert.Error(t, err)
}

func TestNewContactMessage(t *testing.T) {
	m, err := NewContactMessage(uuid.New(), "Rahmat", "rahmat@example.com", "", "Pertanyaan", "Bagaimana cara mengurus surat domisili?")
	require.NoError(t, err)
	assert.False(t, m.IsRead)
	m.MarkRead()
	assert.True(t, m.IsRead)

	_, err = NewContactMessage(uuid.New(), "Rahmat", "bukan-email", "", "Pertanyaan", "Bagaimana caranya ya?")
	assert.Error(t, err)
	_, err = NewContactMessage(uuid.New(), "Rahmat", "rahmat@example.com", "", "Pertanyaan", "pendek")
	assert.Error(t, err)
}

func TestProfile_Validate(t *testing.T) {
	p := NewProfile(uuid.New(), "Desa Pulosarok")
	require.NoError(t, p.Validate())

	p.Email = "salah"
	assert.Error(t, p.Validate())

	p.Email = ""
	p.AreaSize = decimal.NewFromInt(-1)
	assert.Error(t, p.Validate())
}

func TestNewComment(t *testing.T) {
	tenantID, newsID := uuid.New(), uuid.New()

	c, err := NewComment(tenantID, newsID, nil, " Budi ", "budi@desa.id", "https://budi.id", " Setuju ")
	require.NoError(t, err)
	assert.Equal(t, "Budi", c.AuthorName)
	assert.Equal(t, "Setuju", c.Content)
	assert.Equal(t, CommentPending, c.Status)

	_, err = NewComment(tenantID, newsID, nil, "Budi", "bukan-email", "", "x")
	assert.Error(t, err)
	_, err = NewComment(tenantID, newsID, nil, "Budi", "budi@desa.id", "javascript:alert(1)", "x")
	assert.Error(t, err)
	_, err = NewComment(tenantID, newsID, nil, "Budi", "budi@desa.id", "", strings.Repeat("a", 2001))
	assert.Error(t, err)

	assert.Error(t, c.Moderate(CommentPending))
	require.NoError(t, c.Moderate(CommentApproved))
	assert.Error(t, c.Moderate(CommentApproved))
	require.NoError(t, c.Moderate(CommentSpam))
}

func TestRubric_Validate(t *testing.T) {
	r := &Rubric{Name: " Kabar Tani "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "kabar-tani", r.Slug)
	assert.Equal(t, "#007BFF", r.Color)

	r.Color = "blue"
	assert.Error(t, r.Validate())
}
