package annotate

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

const (
	outlineThickness = 3
	jpegQuality      = 90
)

// fieldColors gives each field a stable outline color so a reviewer can tell
// boxes apart without reading the tags.
var fieldColors = map[domain.FieldKey]color.RGBA{
	domain.FieldBrand:  {R: 220, G: 40, B: 40, A: 255},
	domain.FieldType:   {R: 40, G: 160, B: 40, A: 255},
	domain.FieldABV:    {R: 40, G: 80, B: 220, A: 255},
	domain.FieldVolume: {R: 230, G: 140, B: 20, A: 255},
}

// BoxAnnotator draws field bounding boxes onto a copy of the source image and
// returns it as a JPEG data URI.
type BoxAnnotator struct{}

func NewBoxAnnotator() *BoxAnnotator {
	return &BoxAnnotator{}
}

// Annotate renders the located boxes. Fields with a nil box are skipped; an
// image with no boxes at all still round-trips so the response shape is stable.
func (a *BoxAnnotator) Annotate(imageData []byte, boxes map[domain.FieldKey]*domain.BoundingBox) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	for _, key := range domain.AllFieldKeys() {
		box := boxes[key]
		if box == nil {
			continue
		}
		col := fieldColors[key]
		drawOutline(canvas, box, col)
		drawTag(canvas, box, strings.ToUpper(key.DisplayName()), col)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode annotated image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drawOutline paints a hollow rectangle, clipped to the canvas.
func drawOutline(canvas *image.RGBA, box *domain.BoundingBox, col color.RGBA) {
	x0, y0 := box.X, box.Y
	x1, y1 := box.X+box.Width, box.Y+box.Height
	for t := 0; t < outlineThickness; t++ {
		drawRect(canvas, x0+t, y0+t, x1-t, y1-t, col)
	}
}

func drawRect(canvas *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		setClipped(canvas, x, y0, col)
		setClipped(canvas, x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		setClipped(canvas, x0, y, col)
		setClipped(canvas, x1, y, col)
	}
}

func setClipped(canvas *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(canvas.Bounds()) {
		canvas.SetRGBA(x, y, col)
	}
}

// drawTag writes the field name above the box, or just inside it when the box
// touches the top edge of the image.
func drawTag(canvas *image.RGBA, box *domain.BoundingBox, label string, col color.RGBA) {
	face := basicfont.Face7x13
	y := box.Y - 4
	if y-face.Ascent < canvas.Bounds().Min.Y {
		y = box.Y + box.Height + face.Height
	}
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(box.X, y),
	}
	d.DrawString(label)
}
