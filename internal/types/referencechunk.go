package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Ingestion status of a reference document. Chunks are only retrievable
// once their owning document reaches IngestionComplete.
const (
	IngestionPending    = "pending"
	IngestionProcessing = "processing"
	IngestionComplete   = "complete"
	IngestionFailed     = "failed"
)

// ReferenceDocument is a best-practice source document ingested by the
// out-of-band pipeline. This service only ever reads it.
type ReferenceDocument struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string       `gorm:"column:title;not null" json:"title"`
	PlanType        PlanTypeCode `gorm:"column:plan_type;not null;index" json:"plan_type"`
	JurisdictionID  *uuid.UUID   `gorm:"type:uuid;column:jurisdiction_id;index" json:"jurisdiction_id,omitempty"`
	Active          bool         `gorm:"column:active;not null;default:true" json:"active"`
	IngestionStatus string       `gorm:"column:ingestion_status;not null;default:pending" json:"ingestion_status"`
	CreatedAt       time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReferenceDocument) TableName() string {
	return "reference_document"
}

// ReferenceChunk is one immutable unit of best-practice example text,
// bucketed by plan type, section tag and (optionally) grade band.
type ReferenceChunk struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID uuid.UUID          `gorm:"type:uuid;column:document_id;not null;index" json:"document_id"`
	Document   *ReferenceDocument `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	PlanType   PlanTypeCode       `gorm:"column:plan_type;not null;index:idx_chunk_bucket" json:"plan_type"`
	SectionTag string             `gorm:"column:section_tag;not null;index:idx_chunk_bucket" json:"section_tag"`
	GradeBand  GradeBand          `gorm:"column:grade_band" json:"grade_band,omitempty"`
	Index      int                `gorm:"column:index;not null" json:"index"`
	Text       string             `gorm:"column:text;not null" json:"text"`
	Metadata   datatypes.JSON     `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt  time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time          `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReferenceChunk) TableName() string {
	return "reference_chunk"
}
