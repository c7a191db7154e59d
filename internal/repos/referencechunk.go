package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/types"
)

// ChunkQuery is the corpus filter. PlanType and SectionTag are required;
// JurisdictionID and GradeBand narrow the match when set. Only chunks of
// active, fully-ingested documents are ever returned.
type ChunkQuery struct {
	PlanType       types.PlanTypeCode
	SectionTag     string
	JurisdictionID *uuid.UUID
	GradeBand      types.GradeBand
	Limit          int
}

type ReferenceChunkRepo interface {
	Query(ctx context.Context, tx *gorm.DB, q ChunkQuery) ([]*types.ReferenceChunk, error)
	SectionTagsWithChunks(ctx context.Context, tx *gorm.DB, planType types.PlanTypeCode) ([]string, error)
	// Create exists for the ingestion pipeline and for test seeding. The
	// content services never write chunks.
	Create(ctx context.Context, tx *gorm.DB, chunks []*types.ReferenceChunk) ([]*types.ReferenceChunk, error)
}

type referenceChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceChunkRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceChunkRepo {
	repoLog := baseLog.With("repo", "ReferenceChunkRepo")
	return &referenceChunkRepo{db: db, log: repoLog}
}

// retrievable restricts any chunk query to active, fully-ingested
// documents.
func retrievable(tx *gorm.DB) *gorm.DB {
	return tx.
		Joins("JOIN reference_document ON reference_document.id = reference_chunk.document_id").
		Where("reference_document.active = ?", true).
		Where("reference_document.ingestion_status = ?", types.IngestionComplete)
}

func (r *referenceChunkRepo) Query(ctx context.Context, tx *gorm.DB, q ChunkQuery) ([]*types.ReferenceChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := retrievable(transaction.WithContext(ctx).Model(&types.ReferenceChunk{})).
		Where("reference_chunk.plan_type = ?", q.PlanType).
		Where("reference_chunk.section_tag = ?", q.SectionTag)
	if q.JurisdictionID != nil {
		query = query.Where("reference_document.jurisdiction_id = ?", *q.JurisdictionID)
	}
	if q.GradeBand != "" {
		query = query.Where("reference_chunk.grade_band = ?", q.GradeBand)
	}
	// Relevance ordering is this store's concern: newest documents first,
	// then document order of the chunks themselves.
	query = query.Order(`reference_document.created_at DESC, reference_chunk."index" ASC`)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	var results []*types.ReferenceChunk
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *referenceChunkRepo) SectionTagsWithChunks(ctx context.Context, tx *gorm.DB, planType types.PlanTypeCode) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tags []string
	if err := retrievable(transaction.WithContext(ctx).Model(&types.ReferenceChunk{})).
		Where("reference_chunk.plan_type = ?", planType).
		Distinct("reference_chunk.section_tag").
		Order("reference_chunk.section_tag ASC").
		Pluck("reference_chunk.section_tag", &tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *referenceChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.ReferenceChunk) ([]*types.ReferenceChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(chunks) == 0 {
		return []*types.ReferenceChunk{}, nil
	}

	// Keep batches small because Text is large
	const batchSize = 100
	if err := transaction.WithContext(ctx).CreateInBatches(chunks, batchSize).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}
