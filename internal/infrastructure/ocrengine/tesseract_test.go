package ocrengine

import (
	"image"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTesseractLocatorDefaults(t *testing.T) {
	locator := NewTesseractLocator(nil)
	assert.Equal(t, []string{"eng"}, locator.languages)

	locator = NewTesseractLocator([]string{"eng", "fra"})
	assert.Equal(t, []string{"eng", "fra"}, locator.languages)
}

func TestFragmentsFromBoxes(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{
			Box:        image.Rect(10, 20, 210, 60),
			Word:       "JACK DANIEL'S",
			Confidence: 91.5,
		},
		{
			Box:        image.Rect(10, 70, 190, 100),
			Word:       "  TENNESSEE WHISKEY  ",
			Confidence: 87.0,
		},
		{
			// Empty text is dropped.
			Box:        image.Rect(0, 0, 50, 10),
			Word:       "   ",
			Confidence: 80.0,
		},
		{
			// Degenerate rectangle is dropped.
			Box:        image.Rect(5, 5, 5, 30),
			Word:       "GHOST",
			Confidence: 60.0,
		},
	}

	fragments := fragmentsFromBoxes(boxes)
	require.Len(t, fragments, 2)

	assert.Equal(t, "JACK DANIEL'S", fragments[0].Text)
	assert.InDelta(t, 0.915, fragments[0].Confidence, 1e-9)
	assert.Equal(t, 10, fragments[0].Box.X)
	assert.Equal(t, 20, fragments[0].Box.Y)
	assert.Equal(t, 200, fragments[0].Box.Width)
	assert.Equal(t, 40, fragments[0].Box.Height)

	assert.Equal(t, "TENNESSEE WHISKEY", fragments[1].Text)
}

func TestFragmentsFromBoxesClampsConfidence(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(0, 0, 10, 10), Word: "A", Confidence: 120},
		{Box: image.Rect(0, 20, 10, 30), Word: "B", Confidence: -5},
	}

	fragments := fragmentsFromBoxes(boxes)
	require.Len(t, fragments, 2)
	assert.Equal(t, 1.0, fragments[0].Confidence)
	assert.Equal(t, 0.0, fragments[1].Confidence)
}

func TestFragmentsFromBoxesEmpty(t *testing.T) {
	assert.Empty(t, fragmentsFromBoxes(nil))
}
