package persistence

import (
	"context"
	"fmt"

	"github.com/pulosarok/desa/internal/domain/agenda"
	"github.com/pulosarok/desa/internal/domain/beneficiary"
	"github.com/pulosarok/desa/internal/domain/business"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/organization"
	"github.com/pulosarok/desa/internal/domain/posyandu"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/tourism"
	"github.com/pulosarok/desa/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Tables lists every persisted type. Postgres deployments create them through
// the SQL migrations; sqlite development databases are created from this list.
func Tables() []any {
	return []any{
		&identity.Tenant{}, &identity.Staff{},
		&reference.Dusun{}, &reference.Lorong{}, &reference.Penduduk{},
		&letter.LetterType{}, &letter.Settings{}, &letter.Template{}, &letter.Letter{},
		&letter.Tracking{}, &letter.Recipient{}, &letter.Attachment{}, &letter.AIValidation{},
		&letter.Signature{}, &letter.Artifact{}, &models.LetterSequence{},
		&beneficiary.Category{}, &beneficiary.Beneficiary{}, &beneficiary.Verification{},
		&beneficiary.Program{}, &beneficiary.Distribution{},
		&business.Category{}, &business.Koperasi{}, &business.BUMG{}, &business.UKM{},
		&business.Aset{}, &business.LayananJasa{},
		&posyandu.Location{}, &posyandu.Schedule{}, &posyandu.HealthRecord{},
		&posyandu.Immunization{}, &posyandu.NutritionData{},
		&tourism.Category{}, &tourism.Location{}, &tourism.Review{}, &tourism.Event{}, &tourism.Package{},
		&content.Profile{}, &content.News{}, &content.ContactMessage{},
		&content.Rubric{}, &content.Comment{},
		&organization.Type{}, &organization.Organization{}, &organization.Period{},
		&organization.Member{}, &organization.Activity{},
		&agenda.Category{}, &agenda.Event{}, &agenda.Participant{},
	}
}

// tenantUniqueIndexes repeats the per-village unique indexes of the SQL
// migrations. tenant_id sits on the embedded aggregate root, so field tags
// cannot put it into a composite index.
var tenantUniqueIndexes = []struct {
	name, table, columns, where string
}{
	{"idx_staff_tenant_username", "staff", "tenant_id, username", ""},
	{"idx_dusun_tenant_code", "dusun", "tenant_id, code", ""},
	{"idx_penduduk_tenant_nik", "penduduk", "tenant_id, nik", ""},
	{"idx_letter_type_tenant_code", "letter_types", "tenant_id, code", ""},
	{"idx_letter_tenant_number", "letters", "tenant_id, letter_number", "letter_number IS NOT NULL"},
	{"idx_news_rubric_tenant_name", "news_rubrics", "tenant_id, name", ""},
	{"idx_organization_type_tenant_name", "organization_types", "tenant_id, name", ""},
	{"idx_organization_period_active", "organization_periods", "tenant_id, organization_id", "is_active"},
	{"idx_organization_member_position", "organization_members", "tenant_id, organization_id, penduduk_id, position", ""},
	{"idx_event_category_tenant_name", "event_categories", "tenant_id, name", ""},
	{"idx_event_tenant_slug", "events", "tenant_id, slug", ""},
	{"idx_event_participant_resident", "event_participants", "tenant_id, event_id, penduduk_id", ""},
}

// AutoMigrate creates missing tables on a sqlite database and is a no-op on postgres
func (d *Database) AutoMigrate(ctx context.Context) error {
	if !d.IsSQLite() {
		return nil
	}
	db := d.DB.WithContext(ctx)
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("auto-migrate sqlite schema: %w", err)
	}
	if err := createTenantIndexes(db); err != nil {
		return fmt.Errorf("auto-migrate sqlite schema: %w", err)
	}
	return nil
}

func createTenantIndexes(db *gorm.DB) error {
	for _, idx := range tenantUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if idx.where != "" {
			stmt += " WHERE " + idx.where
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
