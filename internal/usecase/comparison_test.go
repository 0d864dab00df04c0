package usecase

import (
	"strings"
	"testing"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestCompareAllFieldsMatch(t *testing.T) {
	form := &domain.FormFields{
		Brand:  "Jack Daniel's",
		Type:   "Tennessee Whiskey",
		ABV:    "40%",
		Volume: "750mL",
	}
	label := &domain.ExtractedFields{
		Brand:  strPtr("JACK DANIEL'S"),
		Type:   strPtr("Tennessee  Whiskey"),
		ABV:    strPtr("80 proof"),
		Volume: strPtr("0.75L"),
	}

	result := Compare(form, label)

	if !result.IsMatch {
		t.Errorf("IsMatch = false, want true; explanation: %s", result.Explanation)
	}
	if len(result.FieldResults) != 4 {
		t.Fatalf("len(FieldResults) = %d, want 4", len(result.FieldResults))
	}
	for key, fc := range result.FieldResults {
		if !fc.Match {
			t.Errorf("field %s match = false, want true (form=%v label=%v)", key, fc.NormalizedForm, fc.NormalizedLabel)
		}
	}
	if !strings.Contains(result.Explanation, "All fields match") {
		t.Errorf("explanation = %q, want success wording", result.Explanation)
	}
}

func TestCompareVolumeUnitEquivalence(t *testing.T) {
	form := &domain.FormFields{Volume: "70cl"}
	label := &domain.ExtractedFields{Volume: strPtr("700ML")}

	result := Compare(form, label)

	fc, ok := result.FieldResults[domain.FieldVolume]
	if !ok {
		t.Fatal("volume comparison missing")
	}
	if !fc.Match {
		t.Errorf("volume match = false, want true")
	}
	if fc.NormalizedForm == nil || *fc.NormalizedForm != "700 mL" {
		t.Errorf("NormalizedForm = %v, want \"700 mL\"", fc.NormalizedForm)
	}
	if fc.NormalizedLabel == nil || *fc.NormalizedLabel != "700 mL" {
		t.Errorf("NormalizedLabel = %v, want \"700 mL\"", fc.NormalizedLabel)
	}
}

func TestCompareMismatchNamesField(t *testing.T) {
	form := &domain.FormFields{
		Brand: "Jack Daniel's",
		ABV:   "40%",
	}
	label := &domain.ExtractedFields{
		Brand: strPtr("Jack Daniel's"),
		ABV:   strPtr("41.3%"),
	}

	result := Compare(form, label)

	if result.IsMatch {
		t.Error("IsMatch = true, want false")
	}
	if fc := result.FieldResults[domain.FieldABV]; fc.Match {
		t.Error("abv match = true, want false")
	}
	if fc := result.FieldResults[domain.FieldBrand]; !fc.Match {
		t.Error("brand match = false, want true")
	}
	if !strings.Contains(result.Explanation, "ABV") {
		t.Errorf("explanation = %q, want it to name ABV", result.Explanation)
	}
	if !strings.Contains(result.Explanation, "Brand") {
		t.Errorf("explanation = %q, want it to credit Brand as matching", result.Explanation)
	}
}

func TestCompareFieldMissingOnOneSide(t *testing.T) {
	t.Run("form only", func(t *testing.T) {
		form := &domain.FormFields{Volume: "750mL"}
		label := &domain.ExtractedFields{}

		result := Compare(form, label)

		fc, ok := result.FieldResults[domain.FieldVolume]
		if !ok {
			t.Fatal("volume comparison missing, want match=false entry")
		}
		if fc.Match {
			t.Error("volume match = true, want false")
		}
		if fc.NormalizedLabel != nil {
			t.Errorf("NormalizedLabel = %v, want nil", fc.NormalizedLabel)
		}
		if result.IsMatch {
			t.Error("IsMatch = true, want false")
		}
	})

	t.Run("label only", func(t *testing.T) {
		form := &domain.FormFields{}
		label := &domain.ExtractedFields{ABV: strPtr("40%")}

		result := Compare(form, label)

		fc, ok := result.FieldResults[domain.FieldABV]
		if !ok {
			t.Fatal("abv comparison missing, want match=false entry")
		}
		if fc.Match {
			t.Error("abv match = true, want false")
		}
		if fc.NormalizedForm != nil {
			t.Errorf("NormalizedForm = %v, want nil", fc.NormalizedForm)
		}
	})

	t.Run("missing on both sides produces no comparison", func(t *testing.T) {
		form := &domain.FormFields{Brand: "Jack Daniel's"}
		label := &domain.ExtractedFields{Brand: strPtr("Jack Daniel's")}

		result := Compare(form, label)

		if _, ok := result.FieldResults[domain.FieldVolume]; ok {
			t.Error("volume comparison present, want skipped")
		}
		if len(result.FieldResults) != 1 {
			t.Errorf("len(FieldResults) = %d, want 1", len(result.FieldResults))
		}
	})
}

func TestCompareUnparseableValue(t *testing.T) {
	form := &domain.FormFields{ABV: "40%"}
	label := &domain.ExtractedFields{ABV: strPtr("strong")}

	result := Compare(form, label)

	fc := result.FieldResults[domain.FieldABV]
	if fc.Match {
		t.Error("abv match = true, want false for unparseable label value")
	}
	if fc.NormalizedLabel != nil {
		t.Errorf("NormalizedLabel = %v, want nil for unparseable value", fc.NormalizedLabel)
	}
	if fc.LabelValue == nil || *fc.LabelValue != "strong" {
		t.Errorf("LabelValue = %v, want raw value preserved", fc.LabelValue)
	}
}

func TestCompareNoComparableFields(t *testing.T) {
	result := Compare(&domain.FormFields{}, &domain.ExtractedFields{})

	if result.IsMatch {
		t.Error("IsMatch = true, want false when nothing was compared")
	}
	if len(result.FieldResults) != 0 {
		t.Errorf("len(FieldResults) = %d, want 0", len(result.FieldResults))
	}
	if !strings.Contains(result.Explanation, "No fields could be compared") {
		t.Errorf("explanation = %q, want empty-comparison wording", result.Explanation)
	}
}

func TestCompareExplanationDeterministic(t *testing.T) {
	form := &domain.FormFields{Brand: "A", Type: "B", ABV: "40%", Volume: "750mL"}
	label := &domain.ExtractedFields{
		Brand:  strPtr("X"),
		Type:   strPtr("B"),
		ABV:    strPtr("45%"),
		Volume: strPtr("750mL"),
	}

	first := Compare(form, label).Explanation
	for i := 0; i < 10; i++ {
		if got := Compare(form, label).Explanation; got != first {
			t.Fatalf("explanation varies between runs: %q vs %q", first, got)
		}
	}
}
