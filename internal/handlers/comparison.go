package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/srab2001/myteacher-sub005/internal/content"
	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/services"
	"github.com/srab2001/myteacher-sub005/internal/types"
)

// Uploads above this size are rejected before extraction.
const maxUploadBytes = 20 << 20

type ComparisonHandler struct {
	log               *logger.Logger
	comparisonService services.ComparisonService
}

func NewComparisonHandler(log *logger.Logger, csvc services.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{
		log:               log.With("handler", "ComparisonHandler"),
		comparisonService: csvc,
	}
}

// POST /api/comparisons
// Multipart form: student_name, plan_type, artifact_date (YYYY-MM-DD),
// description (optional), and two files under "baseline" and "compare".
func (h *ComparisonHandler) Compare(c *gin.Context) {
	studentName := c.PostForm("student_name")
	planType := c.PostForm("plan_type")
	if studentName == "" || planType == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("student_name and plan_type are required"))
		return
	}

	artifactDate := time.Now()
	if raw := c.PostForm("artifact_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_artifact_date", err)
			return
		}
		artifactDate = parsed
	}

	baseline, err := readUpload(c, "baseline")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_baseline_file", err)
		return
	}
	compare, err := readUpload(c, "compare")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_compare_file", err)
		return
	}

	report, err := h.comparisonService.Compare(c.Request.Context(), services.CompareRequest{
		StudentName:  studentName,
		PlanType:     types.PlanTypeCode(planType),
		ArtifactDate: artifactDate,
		Description:  c.PostForm("description"),
		Baseline:     baseline,
		Compare:      compare,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouldNotReadFile):
			RespondError(c, http.StatusBadRequest, "could_not_read_file", errors.New("could not read file"))
		case errors.Is(err, services.ErrGenerationFailed):
			h.log.Error("comparison generation failed", "student", studentName, "error", err)
			RespondError(c, http.StatusBadGateway, "generation_failed", errors.New("generation failed"))
		default:
			h.log.Error("comparison request failed", "student", studentName, "error", err)
			RespondError(c, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	RespondOK(c, gin.H{"report": report})
}

// readUpload pulls one named file out of the multipart form and enforces
// the MIME allow-list. Everything the extractor does not handle stops
// here.
func readUpload(c *gin.Context, field string) (services.FileUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("missing %s file: %w", field, err)
	}
	if fileHeader.Size > maxUploadBytes {
		return services.FileUpload{}, fmt.Errorf("%s file too large", field)
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !content.SupportedArtifactMime(mimeType) {
		return services.FileUpload{}, fmt.Errorf("unsupported file type %q for %s", mimeType, field)
	}
	data, err := readAll(fileHeader)
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("read %s file: %w", field, err)
	}
	return services.FileUpload{Data: data, MimeType: mimeType}, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
