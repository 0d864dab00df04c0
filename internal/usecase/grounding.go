package usecase

import (
	"regexp"
	"strings"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

// punctuationRegex strips everything that is not a word character or space
// before fragment alignment. This is a lighter normalization than the unit
// canonicalization in normalizer.go and serves only string alignment.
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

const (
	defaultMinOverlap   = 0.5
	defaultMaxRunLength = 3
)

// GroundingConfig holds configuration for the field grounder.
type GroundingConfig struct {
	MinOverlap   float64
	MaxRunLength int
}

// GroundingService attaches OCR bounding boxes to extracted field values by
// matching each value against the locator's text fragments.
type GroundingService struct {
	minOverlap   float64
	maxRunLength int
}

// NewGroundingService creates a grounder with the given configuration.
func NewGroundingService(cfg GroundingConfig) *GroundingService {
	overlap := cfg.MinOverlap
	if overlap <= 0 || overlap > 1 {
		overlap = defaultMinOverlap
	}
	runLength := cfg.MaxRunLength
	if runLength <= 0 {
		runLength = defaultMaxRunLength
	}
	return &GroundingService{minOverlap: overlap, maxRunLength: runLength}
}

// GroundFields resolves one box per field. Fields with no extracted value get
// a nil box without attempting a match. Grounding never fails the pipeline;
// worst case is all fields boxless.
func (s *GroundingService) GroundFields(fields *domain.ExtractedFields, fragments []domain.TextFragment) map[domain.FieldKey]*domain.BoundingBox {
	boxes := make(map[domain.FieldKey]*domain.BoundingBox, 4)
	for _, key := range domain.AllFieldKeys() {
		var box *domain.BoundingBox
		if value := fields.Value(key); value != nil {
			box = s.locate(*value, fragments)
		}
		boxes[key] = box
	}
	return boxes
}

// locate finds the fragment, or minimal run of consecutive fragments, whose
// concatenated text best matches value. An exact normalized containment wins;
// otherwise the run with the highest token overlap is taken, subject to the
// minimum threshold. A wrong box is worse than no box, so anything under the
// threshold stays boxless. Ties go to the run appearing earliest in the
// locator's emitted order.
func (s *GroundingService) locate(value string, fragments []domain.TextFragment) *domain.BoundingBox {
	target := normalizeForAlignment(value)
	if target == "" || len(fragments) == 0 {
		return nil
	}

	norms := make([]string, len(fragments))
	for i, f := range fragments {
		norms[i] = normalizeForAlignment(f.Text)
	}

	// Exact pass: shortest runs first so a single matching fragment beats a
	// merged run that happens to contain it.
	for runLength := 1; runLength <= s.maxRunLength; runLength++ {
		for start := 0; start+runLength <= len(fragments); start++ {
			if strings.Contains(runText(norms, start, runLength), target) {
				return mergeBoxes(runFragments(fragments, norms, start, runLength))
			}
		}
	}

	// Overlap fallback.
	targetTokens := strings.Fields(target)
	bestScore := 0.0
	bestStart, bestLength := -1, 0
	for start := 0; start < len(fragments); start++ {
		for runLength := 1; runLength <= s.maxRunLength && start+runLength <= len(fragments); runLength++ {
			score := overlapScore(targetTokens, strings.Fields(runText(norms, start, runLength)))
			if score > bestScore {
				bestScore = score
				bestStart = start
				bestLength = runLength
			}
		}
	}
	if bestStart < 0 || bestScore < s.minOverlap {
		return nil
	}
	return mergeBoxes(runFragments(fragments, norms, bestStart, bestLength))
}

// normalizeForAlignment case-folds, strips punctuation, and collapses
// whitespace runs.
func normalizeForAlignment(s string) string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// runText concatenates the normalized texts of a fragment run, skipping
// fragments that normalized to nothing.
func runText(norms []string, start, runLength int) string {
	parts := make([]string, 0, runLength)
	for _, n := range norms[start : start+runLength] {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// runFragments returns the fragments of a run that contributed text to the
// match. Fragments with no normalized text are excluded so a punctuation-only
// line inside a run does not widen the merged box.
func runFragments(fragments []domain.TextFragment, norms []string, start, runLength int) []domain.TextFragment {
	kept := make([]domain.TextFragment, 0, runLength)
	for i := start; i < start+runLength; i++ {
		if norms[i] != "" {
			kept = append(kept, fragments[i])
		}
	}
	return kept
}

// overlapScore is the fraction of unique target tokens present in the run.
func overlapScore(targetTokens, runTokens []string) float64 {
	if len(targetTokens) == 0 {
		return 0
	}
	runSet := make(map[string]bool, len(runTokens))
	for _, t := range runTokens {
		runSet[t] = true
	}
	seen := make(map[string]bool, len(targetTokens))
	matched, total := 0, 0
	for _, t := range targetTokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		total++
		if runSet[t] {
			matched++
		}
	}
	return float64(matched) / float64(total)
}

// mergeBoxes returns the minimal enclosing rectangle of a fragment run.
func mergeBoxes(fragments []domain.TextFragment) *domain.BoundingBox {
	if len(fragments) == 0 {
		return nil
	}
	minX, minY := fragments[0].Box.X, fragments[0].Box.Y
	maxX := fragments[0].Box.X + fragments[0].Box.Width
	maxY := fragments[0].Box.Y + fragments[0].Box.Height
	for _, f := range fragments[1:] {
		if f.Box.X < minX {
			minX = f.Box.X
		}
		if f.Box.Y < minY {
			minY = f.Box.Y
		}
		if f.Box.X+f.Box.Width > maxX {
			maxX = f.Box.X + f.Box.Width
		}
		if f.Box.Y+f.Box.Height > maxY {
			maxY = f.Box.Y + f.Box.Height
		}
	}
	return &domain.BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
