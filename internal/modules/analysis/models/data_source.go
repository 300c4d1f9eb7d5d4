package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Data source statuses
const (
	SourceStatusActive   = "active"
	SourceStatusArchived = "archived"
)

// DataSource is one uploaded POS export registered for a store. The file
// itself lives in blob storage under FilePath.
type DataSource struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StoreID          int64      `gorm:"not null;index:idx_data_sources_store" json:"store_id"`
	FilePath         string     `gorm:"type:varchar(512);not null" json:"file_path"`
	OriginalFilename string     `gorm:"type:varchar(255)" json:"original_filename"`
	RegisterType     string     `gorm:"type:varchar(20);not null;default:'kiwoom'" json:"register_type"`
	Status           string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastAnalyzed     *time.Time `json:"last_analyzed,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (DataSource) TableName() string {
	return "data_sources"
}

// BeforeCreate sets UUID before creating
func (s *DataSource) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
