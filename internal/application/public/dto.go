package public

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/shopspring/decimal"
)

// ProfileRequest replaces the village profile
type ProfileRequest struct {
	Name           string            `json:"name" binding:"required,max=200"`
	History        string            `json:"history"`
	Vision         string            `json:"vision"`
	Mission        string            `json:"mission"`
	Geography      string            `json:"geography"`
	AreaSize       decimal.Decimal   `json:"area_size"`
	PopulationNote string            `json:"population_note"`
	Address        string            `json:"address"`
	Phone          string            `json:"phone" binding:"max=50"`
	Email          string            `json:"email" binding:"omitempty,email"`
	Website        string            `json:"website" binding:"omitempty,url"`
	SocialLinks    map[string]string `json:"social_links"`
}

func (r ProfileRequest) applyTo(p *content.Profile) {
	p.Name = r.Name
	p.History = r.History
	p.Vision = r.Vision
	p.Mission = r.Mission
	p.Geography = r.Geography
	p.AreaSize = r.AreaSize
	p.PopulationNote = r.PopulationNote
	p.Address = r.Address
	p.Phone = r.Phone
	p.Email = r.Email
	p.Website = r.Website
	p.SocialLinks = r.SocialLinks
}

// ProfileResponse represents the village profile in API responses
type ProfileResponse struct {
	ProfileRequest
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProfileResponse converts a profile to its response
func ToProfileResponse(p *content.Profile) ProfileResponse {
	links := p.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return ProfileResponse{
		ProfileRequest: ProfileRequest{
			Name:           p.Name,
			History:        p.History,
			Vision:         p.Vision,
			Mission:        p.Mission,
			Geography:      p.Geography,
			AreaSize:       p.AreaSize,
			PopulationNote: p.PopulationNote,
			Address:        p.Address,
			Phone:          p.Phone,
			Email:          p.Email,
			Website:        p.Website,
			SocialLinks:    links,
		},
		UpdatedAt: p.UpdatedAt,
	}
}

// NewsRequest creates or replaces an article
type NewsRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Excerpt    string     `json:"excerpt" binding:"max=500"`
	Content    string     `json:"content" binding:"required"`
	Category   string     `json:"category" binding:"omitempty,oneof=pengumuman kegiatan pembangunan sosial kesehatan pendidikan ekonomi lainnya"`
	Tags       []string   `json:"tags"`
	IsFeatured bool       `json:"is_featured"`
	RubricID   *uuid.UUID `json:"rubric_id"`
}

// NewsResponse represents an article in API responses
type NewsResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content,omitempty"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	Tags          []string   `json:"tags"`
	IsFeatured    bool       `json:"is_featured"`
	ViewsCount    int64      `json:"views_count"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	RubricID      *uuid.UUID `json:"rubric_id,omitempty"`
	CommentsCount int64      `json:"comments_count"`
}

// ToNewsResponse converts an article to its response
func ToNewsResponse(n *content.News) NewsResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NewsResponse{
		ID:            n.ID,
		Title:         n.Title,
		Slug:          n.Slug,
		Excerpt:       n.Excerpt,
		Content:       n.Content,
		Category:      string(n.Category),
		Status:        string(n.Status),
		Tags:          tags,
		IsFeatured:    n.IsFeatured,
		ViewsCount:    n.ViewsCount,
		PublishedAt:   n.PublishedAt,
		CreatedAt:     n.CreatedAt,
		RubricID:      n.RubricID,
		CommentsCount: n.CommentsCount,
	}
}

// ContactRequest is a public contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=20"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,min=10"`
}

// ContactResponse represents a contact message in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToContactResponse converts a message to its response
func ToContactResponse(m *content.ContactMessage) ContactResponse {
	return ContactResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// StatsResponse is the public dashboard of village figures
type StatsResponse struct {
	Population          int64            `json:"population"`
	PopulationByGender  map[string]int64 `json:"population_by_gender"`
	DusunCount          int64            `json:"dusun_count"`
	ActiveBeneficiaries int64            `json:"active_beneficiaries"`
	Businesses          map[string]int64 `json:"businesses"`
	PublishedTourism    int64            `json:"published_tourism"`
	LettersIssuedYear   int64            `json:"letters_issued_this_year"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// RubricRequest creates or replaces a news rubric
type RubricRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	IsActive    *bool  `json:"is_active"`
}

func (r RubricRequest) applyTo(rb *content.Rubric) {
	rb.Name = r.Name
	rb.Description = r.Description
	rb.Color = r.Color
	if r.IsActive != nil {
		rb.IsActive = *r.IsActive
	}
}

// RubricResponse represents a news rubric in API responses
type RubricResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
}

// ToRubricResponse converts a rubric to its response
func ToRubricResponse(r *content.Rubric) RubricResponse {
	return RubricResponse{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Color:       r.Color,
		IsActive:    r.IsActive,
	}
}

// CommentRequest is a reader comment submitted on the public site
type CommentRequest struct {
	AuthorName    string     `json:"author_name" binding:"required,max=100"`
	AuthorEmail   string     `json:"author_email" binding:"required,email"`
	AuthorWebsite string     `json:"author_website" binding:"omitempty,url"`
	Content       string     `json:"content" binding:"required,max=2000"`
	ParentID      *uuid.UUID `json:"parent_id"`
}

// CommentResponse represents a comment. Email and client details are only shown to staff.
type CommentResponse struct {
	ID            uuid.UUID  `json:"id"`
	NewsID        uuid.UUID  `json:"news_id"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"`
	AuthorName    string     `json:"author_name"`
	AuthorEmail   string     `json:"author_email,omitempty"`
	AuthorWebsite string     `json:"author_website,omitempty"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	IPAddress     string     `json:"ip_address,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToCommentResponse converts a comment to its staff response
func ToCommentResponse(c *content.Comment) CommentResponse {
	return CommentResponse{
		ID:            c.ID,
		NewsID:        c.NewsID,
		ParentID:      c.ParentID,
		AuthorName:    c.AuthorName,
		AuthorEmail:   c.AuthorEmail,
		AuthorWebsite: c.AuthorWebsite,
		Content:       c.Content,
		Status:        string(c.Status),
		IPAddress:     c.IPAddress,
		CreatedAt:     c.CreatedAt,
	}
}

// toPublicComment drops the author's email and client details
func toPublicComment(c *content.Comment) CommentResponse {
	resp := ToCommentResponse(c)
	resp.AuthorEmail = ""
	resp.IPAddress = ""
	return resp
}

// ModerateCommentRequest sets the moderation outcome of a comment
type ModerateCommentRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected spam"`
}
