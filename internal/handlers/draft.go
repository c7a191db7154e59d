package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/services"
	"github.com/srab2001/myteacher-sub005/internal/types"
)

type DraftHandler struct {
	log          *logger.Logger
	draftService services.DraftService
}

func NewDraftHandler(log *logger.Logger, dsvc services.DraftService) *DraftHandler {
	return &DraftHandler{
		log:          log.With("handler", "DraftHandler"),
		draftService: dsvc,
	}
}

type generateDraftRequest struct {
	PlanType        string                `json:"plan_type" binding:"required"`
	FieldKey        string                `json:"field_key" binding:"required"`
	SectionKey      string                `json:"section_key"`
	JurisdictionID  string                `json:"jurisdiction_id"`
	Student         *types.StudentContext `json:"student"`
	UserInstruction string                `json:"instruction"`
	ChunkLimit      int                   `json:"chunk_limit"`
}

// POST /api/drafts/field
func (h *DraftHandler) GenerateFieldDraft(c *gin.Context) {
	var body generateDraftRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	req := services.DraftRequest{
		PlanType:        types.PlanTypeCode(body.PlanType),
		FieldKey:        body.FieldKey,
		SectionKey:      body.SectionKey,
		Student:         body.Student,
		UserInstruction: body.UserInstruction,
		ChunkLimit:      body.ChunkLimit,
	}
	if body.JurisdictionID != "" {
		id, err := uuid.Parse(body.JurisdictionID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_jurisdiction_id", err)
			return
		}
		req.JurisdictionID = &id
	}

	draft, err := h.draftService.GenerateFieldDraft(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoReferenceMaterial):
			// Designed outcome, not a failure: drafting is unavailable
			// for this field until reference material exists.
			RespondError(c, http.StatusUnprocessableEntity, "no_reference_material", err)
		case errors.Is(err, services.ErrGenerationFailed):
			h.log.Error("draft generation failed", "field_key", body.FieldKey, "error", err)
			RespondError(c, http.StatusBadGateway, "generation_failed", errors.New("generation failed"))
		default:
			h.log.Error("draft request failed", "field_key", body.FieldKey, "error", err)
			RespondError(c, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	RespondOK(c, draft)
}

// GET /api/drafts/sections/:planType
func (h *DraftHandler) AvailableSections(c *gin.Context) {
	planType := types.PlanTypeCode(c.Param("planType"))
	tags, err := h.draftService.AvailableSections(c.Request.Context(), planType)
	if err != nil {
		h.log.Error("available sections lookup failed", "plan_type", planType, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	RespondOK(c, gin.H{"plan_type": planType, "section_tags": tags})
}
