package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/srab2001/myteacher-sub005/internal/content"
	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/platform/openai"
	"github.com/srab2001/myteacher-sub005/internal/repos"
	"github.com/srab2001/myteacher-sub005/internal/types"
)

// ErrNoReferenceMaterial is the designed terminal outcome for a field
// with no usable reference chunks, even after fallback. It is not a
// failure: callers disable drafting for the field instead of retrying.
var ErrNoReferenceMaterial = errors.New("no reference material available")

// ErrGenerationFailed wraps any model-call failure. Generation is never
// retried here; a retried call could ground differently than reported.
var ErrGenerationFailed = errors.New("generation failed")

// retrievalStage names the steps of the widen-then-drop-constraints
// fallback so each step is auditable and testable on its own.
type retrievalStage string

const (
	stageExact     retrievalStage = "exact"
	stageGeneric   retrievalStage = "generic"
	stageExhausted retrievalStage = "exhausted"
)

const defaultChunkLimit = 5

// DraftRequest is one "draft this field of this plan" call. SectionKey
// is the caller-supplied fallback used when the field key is not in the
// static section table.
type DraftRequest struct {
	PlanType        types.PlanTypeCode
	FieldKey        string
	SectionKey      string
	JurisdictionID  *uuid.UUID
	Student         *types.StudentContext
	UserInstruction string
	ChunkLimit      int
}

type DraftService interface {
	GenerateFieldDraft(ctx context.Context, req DraftRequest) (*types.GeneratedDraft, error)
	AvailableSections(ctx context.Context, planType types.PlanTypeCode) ([]string, error)
}

type draftService struct {
	db        *gorm.DB
	log       *logger.Logger
	chunkRepo repos.ReferenceChunkRepo
	ai        openai.Client
	cache     *redis.Client
	cacheTTL  time.Duration
}

// NewDraftService wires the draft orchestration. cache may be nil, in
// which case AvailableSections hits the corpus store every time.
func NewDraftService(db *gorm.DB, log *logger.Logger, chunkRepo repos.ReferenceChunkRepo, ai openai.Client, cache *redis.Client) DraftService {
	return &draftService{
		db:        db,
		log:       log.With("service", "DraftService"),
		chunkRepo: chunkRepo,
		ai:        ai,
		cache:     cache,
		cacheTTL:  5 * time.Minute,
	}
}

func (s *draftService) GenerateFieldDraft(ctx context.Context, req DraftRequest) (*types.GeneratedDraft, error) {
	sectionTag, resolved := content.ResolveSection(req.PlanType, req.FieldKey)
	if !resolved {
		// Classification miss is not an error; the caller's own section
		// key buckets the retrieval instead.
		sectionTag = req.SectionKey
	}
	if sectionTag == "" {
		return nil, fmt.Errorf("no section tag for field %q and no fallback section key supplied", req.FieldKey)
	}

	var gradeBand types.GradeBand
	if req.Student != nil {
		gradeBand = content.ClassifyGradeBand(req.Student.Grade)
	}

	limit := req.ChunkLimit
	if limit <= 0 {
		limit = defaultChunkLimit
	}

	chunks, stage, err := s.retrieveWithFallback(ctx, req.PlanType, sectionTag, req.JurisdictionID, gradeBand, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieve reference chunks: %w", err)
	}
	if stage == stageExhausted {
		s.log.Info("no reference material for field",
			"plan_type", req.PlanType, "field_key", req.FieldKey, "section_tag", sectionTag)
		return nil, ErrNoReferenceMaterial
	}

	retrieved := make([]content.RetrievedChunk, 0, len(chunks))
	chunkIDs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		retrieved = append(retrieved, content.RetrievedChunk{
			ID:        c.ID.String(),
			Text:      c.Text,
			GradeBand: c.GradeBand,
		})
		chunkIDs = append(chunkIDs, c.ID.String())
	}

	prompt := content.BuildDraftPrompt(content.DraftPromptInput{
		PlanType:        req.PlanType,
		SectionTag:      sectionTag,
		FieldKey:        req.FieldKey,
		Chunks:          retrieved,
		Student:         req.Student,
		UserInstruction: req.UserInstruction,
	})

	// The assembled prompt carries its own role framing; no separate
	// system message.
	text, err := s.ai.GenerateText(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.log.Debug("field draft generated",
		"plan_type", req.PlanType, "field_key", req.FieldKey,
		"section_tag", sectionTag, "stage", stage, "chunks", len(chunkIDs))

	return &types.GeneratedDraft{
		Text:           text,
		SourceChunkIDs: chunkIDs,
		SectionTag:     sectionTag,
	}, nil
}

// retrieveWithFallback runs the two-tier retrieval: the exact section
// tag with full narrowing, then the generic tag prefix with none. It
// never invents chunks; exhaustion is reported as a stage, and the model
// is never called without grounding.
func (s *draftService) retrieveWithFallback(ctx context.Context, planType types.PlanTypeCode, sectionTag string, jurisdictionID *uuid.UUID, gradeBand types.GradeBand, limit int) ([]*types.ReferenceChunk, retrievalStage, error) {
	chunks, err := s.chunkRepo.Query(ctx, s.db, repos.ChunkQuery{
		PlanType:       planType,
		SectionTag:     sectionTag,
		JurisdictionID: jurisdictionID,
		GradeBand:      gradeBand,
		Limit:          limit,
	})
	if err != nil {
		return nil, stageExact, err
	}
	if len(chunks) > 0 {
		return chunks, stageExact, nil
	}

	chunks, err = s.chunkRepo.Query(ctx, s.db, repos.ChunkQuery{
		PlanType:   planType,
		SectionTag: content.GenericSectionTag(sectionTag),
		Limit:      limit,
	})
	if err != nil {
		return nil, stageGeneric, err
	}
	if len(chunks) > 0 {
		return chunks, stageGeneric, nil
	}

	return nil, stageExhausted, nil
}

// AvailableSections reports which section tags currently have
// retrievable reference material, so the caller can advertise where
// drafting is enabled. Backed by a short-TTL cache since the corpus
// changes only when the ingestion pipeline finishes a document.
func (s *draftService) AvailableSections(ctx context.Context, planType types.PlanTypeCode) ([]string, error) {
	cacheKey := fmt.Sprintf("available_sections:%s", planType)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var tags []string
			if err := json.Unmarshal([]byte(cached), &tags); err == nil {
				return tags, nil
			}
		}
	}

	tags, err := s.chunkRepo.SectionTagsWithChunks(ctx, s.db, planType)
	if err != nil {
		return nil, fmt.Errorf("list section tags: %w", err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(tags); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.log.Warn("section cache write failed", "error", err)
			}
		}
	}
	return tags, nil
}
