package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelens/pos-insight-be/internal/modules/analysis/models"
)

// ErrSourceNotFound is returned when a data source does not exist, is not
// active, or belongs to a different store.
var ErrSourceNotFound = errors.New("data source not found")

// SourceRepository handles data source storage operations
type SourceRepository interface {
	FindActive(id uuid.UUID, storeID int64) (*models.DataSource, error)
	MarkLastAnalyzed(ids []uuid.UUID, at time.Time) error
	ListStale(before time.Time) ([]models.DataSource, error)
}

type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

// FindActive loads an active source scoped to a store. Sources of other
// stores are indistinguishable from missing ones.
func (r *sourceRepository) FindActive(id uuid.UUID, storeID int64) (*models.DataSource, error) {
	var source models.DataSource
	err := r.db.
		Where("id = ? AND store_id = ? AND status = ?", id, storeID, models.SourceStatusActive).
		First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}
	return &source, nil
}

// MarkLastAnalyzed stamps the given sources with the analysis time
func (r *sourceRepository) MarkLastAnalyzed(ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.DataSource{}).
		Where("id IN ?", ids).
		Update("last_analyzed", at).Error
}

// ListStale returns active sources never analyzed or last analyzed before the cutoff
func (r *sourceRepository) ListStale(before time.Time) ([]models.DataSource, error) {
	var sources []models.DataSource
	err := r.db.
		Where("status = ?", models.SourceStatusActive).
		Where("last_analyzed IS NULL OR last_analyzed < ?", before).
		Order("store_id").
		Find(&sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}
