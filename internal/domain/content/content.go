package content

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Profile is the public description of the village. One per tenant.
type Profile struct {
	shared.TenantAggregateRoot
	Name           string            `gorm:"type:varchar(200);not null"`
	History        string            `gorm:"type:text"`
	Vision         string            `gorm:"type:text"`
	Mission        string            `gorm:"type:text"`
	Geography      string            `gorm:"type:text"`
	AreaSize       decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	PopulationNote string            `gorm:"type:text"`
	Address        string            `gorm:"type:text"`
	Phone          string            `gorm:"type:varchar(50)"`
	Email          string            `gorm:"type:varchar(200)"`
	Website        string            `gorm:"type:varchar(200)"`
	SocialLinks    map[string]string `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "village_profiles"
}

// NewProfile creates an empty profile for the tenant
func NewProfile(tenantID uuid.UUID, name string) *Profile {
	return &Profile{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), Name: name}
}

// Validate checks the profile's invariants
func (p *Profile) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Village name is required")
	}
	if p.AreaSize.IsNegative() {
		return shared.NewDomainError("INVALID_AREA", "Area cannot be negative")
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	return nil
}

// NewsCategory classifies news articles
type NewsCategory string

const (
	NewsAnnouncement NewsCategory = "pengumuman"
	NewsActivity     NewsCategory = "kegiatan"
	NewsDevelopment  NewsCategory = "pembangunan"
	NewsSocial       NewsCategory = "sosial"
	NewsHealth       NewsCategory = "kesehatan"
	NewsEducation    NewsCategory = "pendidikan"
	NewsEconomy      NewsCategory = "ekonomi"
	NewsOther        NewsCategory = "lainnya"
)

// IsValid reports whether c is a known category
func (c NewsCategory) IsValid() bool {
	switch c {
	case NewsAnnouncement, NewsActivity, NewsDevelopment, NewsSocial, NewsHealth, NewsEducation, NewsEconomy, NewsOther:
		return true
	}
	return false
}

// NewsStatus is the visibility of an article
type NewsStatus string

const (
	NewsDraft     NewsStatus = "draft"
	NewsPublished NewsStatus = "published"
	NewsArchived  NewsStatus = "archived"
)

// News is an article shown on the public site
type News struct {
	shared.TenantAggregateRoot
	Title       string       `gorm:"type:varchar(200);not null"`
	Slug        string       `gorm:"type:varchar(100);not null;index"`
	Excerpt     string       `gorm:"type:varchar(500)"`
	Content     string       `gorm:"type:text;not null"`
	Category    NewsCategory `gorm:"type:varchar(20);not null;default:'lainnya'"`
	Status      NewsStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Tags        []string     `gorm:"type:text;serializer:json"`
	IsFeatured  bool         `gorm:"not null;default:false"`
	ViewsCount  int64        `gorm:"<-:create;not null;default:0"`
	AuthorID    *uuid.UUID   `gorm:"type:uuid"`
	PublishedAt *time.Time   `gorm:"index"`
	// RubricID files the article under a village-defined rubric
	RubricID *uuid.UUID `gorm:"type:uuid;index"`
	// CommentsCount is the number of approved comments, kept by moderation
	CommentsCount int64 `gorm:"<-:create;not null;default:0"`
}

// TableName returns the table name for GORM
func (News) TableName() string {
	return "news"
}

const excerptLength = 200

// NewNews creates a draft article
func NewNews(tenantID uuid.UUID, title, body string, category NewsCategory) (*News, error) {
	n := &News{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), Status: NewsDraft}
	if err := n.Update(title, body, "", category, nil); err != nil {
		return nil, err
	}
	return n, nil
}

// Update replaces the article body. An empty excerpt is derived from the content.
func (n *News) Update(title, body, excerpt string, category NewsCategory, tags []string) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	if strings.TrimSpace(body) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content is required")
	}
	if category == "" {
		category = NewsOther
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown news category")
	}
	if excerpt == "" {
		excerpt = makeExcerpt(body)
	}
	n.Title = title
	n.Content = body
	n.Excerpt = excerpt
	n.Category = category
	n.Tags = tags
	n.Touch()
	n.IncrementVersion()
	return nil
}

func makeExcerpt(body string) string {
	words := strings.Fields(body)
	var b strings.Builder
	for _, w := range words {
		if b.Len()+len(w)+1 > excerptLength {
			b.WriteString("...")
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}

// Publish makes the article public, stamping published_at on the first publish
func (n *News) Publish(at time.Time) error {
	if n.Status == NewsPublished {
		return shared.NewDomainError("INVALID_STATE", "News is already published")
	}
	n.Status = NewsPublished
	if n.PublishedAt == nil {
		n.PublishedAt = &at
	}
	n.Touch()
	n.IncrementVersion()
	return nil
}

// Archive hides the article
func (n *News) Archive() {
	n.Status = NewsArchived
	n.Touch()
	n.IncrementVersion()
}

// Rubric is a village-defined news section with its own colour on the site
type Rubric struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Color       string `gorm:"type:varchar(7);not null;default:'#007BFF'"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Rubric) TableName() string {
	return "news_rubrics"
}

// Validate checks the rubric's invariants and derives its slug
func (r *Rubric) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" || len(r.Name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Rubric name must be 1 to 100 characters")
	}
	if r.Color == "" {
		r.Color = "#007BFF"
	}
	if !colorPattern.MatchString(r.Color) {
		return shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #RRGGBB")
	}
	r.Color = strings.ToUpper(r.Color)
	r.Slug = shared.Slugify(r.Name, "rubrik")
	return nil
}

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
	CommentSpam     CommentStatus = "spam"
)

// IsValid reports whether s is a known comment status
func (s CommentStatus) IsValid() bool {
	switch s {
	case CommentPending, CommentApproved, CommentRejected, CommentSpam:
		return true
	}
	return false
}

// Comment is a reader comment on a news article. Replies point at their parent.
type Comment struct {
	shared.TenantAggregateRoot
	NewsID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	ParentID      *uuid.UUID    `gorm:"type:uuid;index"`
	AuthorName    string        `gorm:"type:varchar(100);not null"`
	AuthorEmail   string        `gorm:"type:varchar(200);not null"`
	AuthorWebsite string        `gorm:"type:varchar(200)"`
	Content       string        `gorm:"type:text;not null"`
	Status        CommentStatus `gorm:"type:varchar(10);not null;default:'pending';index"`
	IPAddress     string        `gorm:"type:varchar(45)"`
	UserAgent     string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "news_comments"
}

const maxCommentLength = 2000

// NewComment creates a comment awaiting moderation
func NewComment(tenantID, newsID uuid.UUID, parentID *uuid.UUID, name, email, website, body string) (*Comment, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be 1 to 100 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if website != "" {
		if u, err := url.Parse(website); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, shared.NewDomainError("INVALID_WEBSITE", "Website must be an http or https URL")
		}
	}
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxCommentLength {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment must be 1 to 2000 characters")
	}
	return &Comment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		NewsID:              newsID,
		ParentID:            parentID,
		AuthorName:          name,
		AuthorEmail:         email,
		AuthorWebsite:       website,
		Content:             body,
		Status:              CommentPending,
	}, nil
}

// Moderate moves the comment to a reviewed state
func (c *Comment) Moderate(status CommentStatus) error {
	if !status.IsValid() || status == CommentPending {
		return shared.NewDomainError("INVALID_STATUS", "Unknown moderation status")
	}
	if c.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Comment already has this status")
	}
	c.Status = status
	c.Touch()
	c.IncrementVersion()
	return nil
}

// ContactMessage is a message sent through the public contact form
type ContactMessage struct {
	shared.BaseEntity
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(100);not null"`
	Email    string    `gorm:"type:varchar(200);not null"`
	Phone    string    `gorm:"type:varchar(20)"`
	Subject  string    `gorm:"type:varchar(200);not null"`
	Message  string    `gorm:"type:text;not null"`
	IsRead   bool      `gorm:"not null;default:false;index"`
	SenderIP string    `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// NewContactMessage validates and creates an unread message
func NewContactMessage(tenantID uuid.UUID, name, email, phone, subject, message string) (*ContactMessage, error) {
	name, subject = strings.TrimSpace(name), strings.TrimSpace(subject)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be 1 to 100 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if subject == "" || len(subject) > 200 {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject must be 1 to 200 characters")
	}
	if len(strings.TrimSpace(message)) < 10 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message must be at least 10 characters")
	}
	return &ContactMessage{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Name:       name,
		Email:      email,
		Phone:      phone,
		Subject:    subject,
		Message:    message,
	}, nil
}

// MarkRead flags the message as handled
func (m *ContactMessage) MarkRead() {
	m.IsRead = true
	m.Touch()
}
