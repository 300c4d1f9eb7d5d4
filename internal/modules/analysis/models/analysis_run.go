package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analysis run statuses
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AnalysisRun is the immutable record of one orchestration call: both engine
// payloads plus the overall status. Payloads are stored as JSONB documents;
// a failed engine's payload carries an "error" field instead of results.
type AnalysisRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StoreID      int64          `gorm:"not null;index:idx_analysis_runs_store" json:"store_id"`
	SourceIDs    datatypes.JSON `gorm:"type:jsonb;not null" json:"source_ids"`
	AnalysisType string         `gorm:"type:varchar(30);not null;default:'autoanalysis'" json:"analysis_type"`
	Status       string         `gorm:"type:varchar(20);not null" json:"status"`
	Forecast     datatypes.JSON `gorm:"type:jsonb" json:"predict"`
	Cluster      datatypes.JSON `gorm:"type:jsonb" json:"cluster"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// BeforeCreate sets UUID before creating
func (r *AnalysisRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
