package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/srab2001/myteacher-sub005/internal/content"
	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/platform/openai"
	"github.com/srab2001/myteacher-sub005/internal/types"
)

// ErrCouldNotReadFile wraps extraction failures. The wrapped error names
// the originating format and which upload failed.
var ErrCouldNotReadFile = errors.New("could not read file")

// FileUpload is the raw upload as it arrives from the HTTP boundary.
// MIME allow-listing already happened there.
type FileUpload struct {
	Data     []byte
	MimeType string
}

// CompareRequest compares a student-produced artifact against a
// baseline. Both sides may independently be a document or an image.
type CompareRequest struct {
	StudentName  string
	PlanType     types.PlanTypeCode
	ArtifactDate time.Time
	Description  string
	Baseline     FileUpload
	Compare      FileUpload
}

type ComparisonService interface {
	Compare(ctx context.Context, req CompareRequest) (string, error)
}

type comparisonService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewComparisonService(log *logger.Logger, ai openai.Client) ComparisonService {
	return &comparisonService{
		log: log.With("service", "ComparisonService"),
		ai:  ai,
	}
}

func (s *comparisonService) Compare(ctx context.Context, req CompareRequest) (string, error) {
	// The two extractions share nothing, so they run concurrently.
	var baseline, compare content.Artifact
	var g errgroup.Group
	g.Go(func() error {
		a, err := content.ExtractArtifact(req.Baseline.Data, req.Baseline.MimeType)
		if err != nil {
			return fmt.Errorf("%w: baseline: %v", ErrCouldNotReadFile, err)
		}
		baseline = a
		return nil
	})
	g.Go(func() error {
		a, err := content.ExtractArtifact(req.Compare.Data, req.Compare.MimeType)
		if err != nil {
			return fmt.Errorf("%w: comparison upload: %v", ErrCouldNotReadFile, err)
		}
		compare = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	prompt := content.BuildComparisonPrompt(content.ComparisonInput{
		StudentName:  req.StudentName,
		PlanType:     req.PlanType,
		ArtifactDate: req.ArtifactDate,
		Description:  req.Description,
		Baseline:     baseline,
		Compare:      compare,
	})

	parts := make([]openai.Part, 0, len(prompt.Parts))
	for _, p := range prompt.Parts {
		if p.Kind == content.ArtifactImage {
			parts = append(parts, openai.ImagePart(openai.DataURL(p.ImageMime, p.ImageData)))
			continue
		}
		parts = append(parts, openai.TextPart(p.Text))
	}

	report, err := s.ai.GenerateTextWithParts(ctx, prompt.System, parts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.log.Debug("comparison report generated",
		"student", req.StudentName, "plan_type", req.PlanType,
		"baseline_kind", baseline.Kind, "compare_kind", compare.Kind)
	return report, nil
}
