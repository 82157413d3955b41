package usage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Kind is the request type a Record belongs to.
type Kind string

const (
	KindOCR       Kind = "ocr"
	KindTranslate Kind = "translate"
)

// Record is one processed request. It holds sizes and outcome, never the text itself.
type Record struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID         string         `gorm:"type:varchar(64);index" json:"request_id,omitempty"`
	Kind              Kind           `gorm:"type:varchar(20);not null;index:idx_usage_kind_created" json:"kind"`
	OCRProvider       string         `gorm:"type:varchar(64)" json:"ocr_provider,omitempty"`
	TranslationMethod string         `gorm:"type:varchar(20);not null;default:'none'" json:"translation_method"`
	ImageCount        int            `gorm:"not null;default:0" json:"image_count"`
	OriginalLength    int            `gorm:"not null;default:0" json:"original_length"`
	TranslatedLength  int            `gorm:"not null;default:0" json:"translated_length"`
	Success           bool           `gorm:"not null" json:"success"`
	FallbackUsed      bool           `gorm:"not null" json:"fallback_used"`
	ErrorMessage      string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMS        int64          `gorm:"not null;default:0" json:"duration_ms"`
	Options           datatypes.JSON `json:"options,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index:idx_usage_kind_created" json:"created_at"`
}

// TableName specifies the table name
func (Record) TableName() string {
	return "usage_records"
}

// BeforeCreate sets UUID before creating
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
