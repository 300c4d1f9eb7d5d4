package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelens/pos-insight-be/internal/modules/analysis/models"
)

// RunRepository handles analysis run storage operations
type RunRepository interface {
	Insert(run *models.AnalysisRun) error
	GetByID(id uuid.UUID) (*models.AnalysisRun, error)
	ListByStore(storeID int64, limit int) ([]models.AnalysisRun, error)
}

type runRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

// Insert persists a completed or failed analysis run
func (r *runRepository) Insert(run *models.AnalysisRun) error {
	return r.db.Create(run).Error
}

// GetByID fetches a single run
func (r *runRepository) GetByID(id uuid.UUID) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	if err := r.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListByStore returns the most recent runs for a store
func (r *runRepository) ListByStore(storeID int64, limit int) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	q := r.db.Where("store_id = ?", storeID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
