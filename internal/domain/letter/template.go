package letter

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// TemplateType classifies letter templates
type TemplateType string

const (
	TemplateOfficial       TemplateType = "official"
	TemplateCertificate    TemplateType = "certificate"
	TemplateRecommendation TemplateType = "recommendation"
	TemplateInvitation     TemplateType = "invitation"
	TemplateNotification   TemplateType = "notification"
	TemplateCustom         TemplateType = "custom"
)

// IsValid reports whether t is a known template type
func (t TemplateType) IsValid() bool {
	switch t {
	case TemplateOfficial, TemplateCertificate, TemplateRecommendation,
		TemplateInvitation, TemplateNotification, TemplateCustom:
		return true
	}
	return false
}

var templateVarPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Template is reusable letter body text with {{variable}} placeholders
type Template struct {
	shared.TenantAggregateRoot
	Name            string       `gorm:"type:varchar(100);not null"`
	TemplateType    TemplateType `gorm:"type:varchar(20);not null"`
	Description     string       `gorm:"type:text"`
	LetterTypeID    *uuid.UUID   `gorm:"type:uuid;index"`
	ContentTemplate string       `gorm:"type:text;not null"`
	Variables       []string     `gorm:"type:text;serializer:json"`
	CSSStyles       string       `gorm:"column:css_styles;type:text"`
	HeaderTemplate  string       `gorm:"type:text"`
	FooterTemplate  string       `gorm:"type:text"`
	IsDefault       bool         `gorm:"not null;default:false"`
	IsActive        bool         `gorm:"not null;default:true"`
	UsageCount      int          `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "letter_templates"
}

// NewTemplate creates an active template and derives its variable list
func NewTemplate(tenantID uuid.UUID, name string, ttype TemplateType, content string) (*Template, error) {
	t := &Template{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := t.Update(name, ttype, content); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces name, type and content
func (t *Template) Update(name string, ttype TemplateType, content string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Template name must be 1 to 100 characters")
	}
	if !ttype.IsValid() {
		return shared.NewDomainError("INVALID_TEMPLATE_TYPE", "Unknown template type")
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Template content cannot be empty")
	}
	t.Name = name
	t.TemplateType = ttype
	t.ContentTemplate = content
	t.Variables = TemplateVariables(content)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Render substitutes the given variables. Placeholders without a value are left untouched.
func (t *Template) Render(vars map[string]string) string {
	return RenderTemplate(t.ContentTemplate, vars)
}

// RecordUsage increments the usage counter
func (t *Template) RecordUsage() {
	t.UsageCount++
	t.Touch()
}

// RenderTemplate substitutes {{ name }} placeholders; whitespace inside the braces is ignored
func RenderTemplate(content string, vars map[string]string) string {
	return templateVarPattern.ReplaceAllStringFunc(content, func(m string) string {
		name := templateVarPattern.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// TemplateVariables lists the distinct placeholder names in order of first appearance
func TemplateVariables(content string) []string {
	seen := map[string]bool{}
	vars := []string{}
	for _, m := range templateVarPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}
