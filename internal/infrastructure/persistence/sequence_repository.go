package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const nextSequenceSQL = `INSERT INTO letter_sequences (tenant_id, year, counter, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT (tenant_id, year) DO UPDATE SET counter = letter_sequences.counter + 1, updated_at = excluded.updated_at
RETURNING counter`

// GormSequenceRepository implements letter.SequenceRepository with a single upsert per number
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments the (tenant, year) counter and returns the new value.
// The row lock taken by the upsert serializes concurrent callers until their transaction ends.
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, year int) (int64, error) {
	var counter int64
	row := r.db.WithContext(ctx).Raw(nextSequenceSQL, tenantID, year, time.Now().UTC()).Row()
	if err := row.Scan(&counter); err != nil {
		return 0, fmt.Errorf("next letter sequence: %w", err)
	}
	return counter, nil
}

// Current returns the last issued counter, 0 when the partition is empty
func (r *GormSequenceRepository) Current(ctx context.Context, tenantID uuid.UUID, year int) (int64, error) {
	var seq models.LetterSequence
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND year = ?", tenantID, year).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.Counter, nil
}

var _ letter.SequenceRepository = (*GormSequenceRepository)(nil)
