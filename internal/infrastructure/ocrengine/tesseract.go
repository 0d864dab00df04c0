package ocrengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

// TesseractLocator detects text lines in label photos with a local Tesseract
// engine. Each call uses a fresh client; gosseract clients are not safe for
// concurrent reuse.
type TesseractLocator struct {
	languages []string
}

// NewTesseractLocator creates a locator for the given Tesseract language codes.
func NewTesseractLocator(languages []string) *TesseractLocator {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractLocator{languages: languages}
}

// LocateText runs line-level detection on the image. Fragments come back in
// Tesseract's reading order, unfiltered by confidence.
func (t *TesseractLocator) LocateText(ctx context.Context, image []byte) ([]domain.TextFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("%w: set language: %v", domain.ErrOCRFailure, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("%w: load image: %v", domain.ErrOCRFailure, err)
	}

	// Line-level granularity keeps multi-word values like brand names in one
	// fragment, which suits containment matching better than single words.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("%w: bounding boxes: %v", domain.ErrOCRFailure, err)
	}

	return fragmentsFromBoxes(boxes), nil
}

// fragmentsFromBoxes converts Tesseract results to domain fragments, dropping
// empty text and degenerate rectangles. Tesseract reports confidence in
// [0,100]; domain fragments carry [0,1].
func fragmentsFromBoxes(boxes []gosseract.BoundingBox) []domain.TextFragment {
	fragments := make([]domain.TextFragment, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" || b.Box.Dx() <= 0 || b.Box.Dy() <= 0 {
			continue
		}
		conf := b.Confidence / 100.0
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		fragments = append(fragments, domain.TextFragment{
			Text:       text,
			Confidence: conf,
			Box: domain.BoundingBox{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
		})
	}
	return fragments
}
