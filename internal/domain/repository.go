package domain

import (
	"context"
	"time"
)

// VisionExtractor defines the interface for the vision-language extraction
// capability. Both calls are non-deterministic and may fail or time out;
// callers degrade rather than abort.
type VisionExtractor interface {
	ValidateLabel(ctx context.Context, image []byte) (*LabelValidation, error)
	ExtractFields(ctx context.Context, image []byte) (*ExtractedFields, error)
}

// TextLocator defines the interface for OCR text detection. Low-confidence
// fragments are returned unfiltered; filtering is grounding policy.
type TextLocator interface {
	LocateText(ctx context.Context, image []byte) ([]TextFragment, error)
}

// Annotator renders field bounding boxes onto an image and returns it as a
// base64 data URI. Pure rendering, excluded from verification correctness.
type Annotator interface {
	Annotate(image []byte, boxes map[FieldKey]*BoundingBox) (string, error)
}

// ExtractionCache stores vision extraction results keyed by image digest so an
// identical photo does not trigger a second paid extraction call.
type ExtractionCache interface {
	Get(ctx context.Context, key string) (*ExtractedFields, error)
	Set(ctx context.Context, key string, fields *ExtractedFields, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
