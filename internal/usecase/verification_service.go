package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/24kool/ttb-label-verification/internal/domain"
	"github.com/24kool/ttb-label-verification/internal/monitoring"
)

// VerificationConfig holds configuration for the verification service.
type VerificationConfig struct {
	CacheTTL  time.Duration
	Grounding GroundingConfig
}

// VerificationService runs the full label verification pipeline: vision
// extraction and OCR text location in parallel, grounding, annotation, and
// comparison against the operator's form data.
type VerificationService struct {
	vision    domain.VisionExtractor
	locator   domain.TextLocator
	annotator domain.Annotator
	cache     domain.ExtractionCache
	grounding *GroundingService
	metrics   *monitoring.Metrics
	cacheTTL  time.Duration
}

// NewVerificationService creates a verification service with dependencies.
func NewVerificationService(
	vision domain.VisionExtractor,
	locator domain.TextLocator,
	annotator domain.Annotator,
	cache domain.ExtractionCache,
	metrics *monitoring.Metrics,
	cfg VerificationConfig,
) *VerificationService {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	return &VerificationService{
		vision:    vision,
		locator:   locator,
		annotator: annotator,
		cache:     cache,
		grounding: NewGroundingService(cfg.Grounding),
		metrics:   metrics,
		cacheTTL:  cacheTTL,
	}
}

// Verify processes one image plus the submitted form fields end to end. The
// two extraction calls have no data dependency and run concurrently; grounding
// waits for both. The response is always well-formed: extraction failures
// degrade to null fields with a populated error string instead of aborting.
func (s *VerificationService) Verify(ctx context.Context, image []byte, form *domain.FormFields) (*domain.VerificationResponse, error) {
	if len(image) == 0 || form == nil {
		return nil, domain.ErrInvalidRequest
	}

	var (
		wg        sync.WaitGroup
		extracted *domain.ExtractedFields
		fragments []domain.TextFragment
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		extracted = s.extractFields(ctx, image)
	}()
	go func() {
		defer wg.Done()
		fragments = s.locateText(ctx, image)
	}()
	wg.Wait()

	// Grounding and comparison never start for an abandoned request.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boxes := s.grounding.GroundFields(extracted, fragments)

	annotated, err := s.annotator.Annotate(image, boxes)
	if err != nil {
		logrus.WithError(err).Warn("annotate image")
		annotated = ""
	}

	comparison := Compare(form, extracted)
	s.metrics.IncVerification(verificationOutcome(comparison, extracted))

	return &domain.VerificationResponse{
		Success: extracted.Error == "",
		Results: []domain.ImageResult{{
			OCRRawText:     joinFragmentText(fragments),
			ExtractedData:  *extracted,
			BoundingBoxes:  boxes,
			AnnotatedImage: annotated,
		}},
		Comparison: comparison,
		Error:      extracted.Error,
	}, nil
}

// extractFields obtains the structured field record for the image, consulting
// the digest-keyed cache first. A failed vision call degrades to all-null
// fields carrying the error string so the pipeline always completes.
func (s *VerificationService) extractFields(ctx context.Context, image []byte) *domain.ExtractedFields {
	key := imageDigest(image)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			logrus.WithField("digest", key[:12]).Debug("extraction cache hit")
			return cached
		}
	}

	validation := s.validateLabel(ctx, image)

	fields, err := s.vision.ExtractFields(ctx, image)
	if err != nil {
		logrus.WithError(err).Error("vision extraction failed")
		s.metrics.IncExtractionFailure("vision")
		return &domain.ExtractedFields{
			Error:          err.Error(),
			IsAlcoholLabel: validation.IsAlcoholLabel,
			QualityOK:      validation.QualityOK,
		}
	}
	fields.IsAlcoholLabel = validation.IsAlcoholLabel
	fields.QualityOK = validation.QualityOK

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, fields, s.cacheTTL); err != nil {
			logrus.WithError(err).Warn("cache extraction result")
		}
	}
	return fields
}

// validateLabel runs the plausibility/quality check. When the validation call
// itself fails or returns junk, the flags default to usable so a flaky
// validator never blocks review of the comparison.
func (s *VerificationService) validateLabel(ctx context.Context, image []byte) domain.LabelValidation {
	validation, err := s.vision.ValidateLabel(ctx, image)
	if err != nil || validation == nil {
		if err != nil {
			logrus.WithError(err).Warn("label validation failed, proceeding")
		}
		return domain.LabelValidation{IsAlcoholLabel: true, QualityOK: true}
	}
	return *validation
}

// locateText runs OCR detection. Engine failure degrades to an empty fragment
// list; grounding then yields all-null boxes. Tesseract failures are
// deterministic, so there is no retry here.
func (s *VerificationService) locateText(ctx context.Context, image []byte) []domain.TextFragment {
	fragments, err := s.locator.LocateText(ctx, image)
	if err != nil {
		logrus.WithError(err).Warn("text location failed, grounding degrades to boxless")
		s.metrics.IncExtractionFailure("ocr")
		return nil
	}
	return fragments
}

func verificationOutcome(comparison domain.ComparisonResult, extracted *domain.ExtractedFields) string {
	if extracted.Error != "" {
		return "error"
	}
	if comparison.IsMatch {
		return "match"
	}
	return "mismatch"
}

func imageDigest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

func joinFragmentText(fragments []domain.TextFragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	return strings.Join(parts, " ")
}
