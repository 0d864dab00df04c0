package usecase

import (
	"fmt"
	"strings"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

// Compare produces the per-field verdicts and the overall result for one
// request. A field missing on one side is reported with match=false rather
// than skipped; a field missing on both sides produces no comparison at all.
// The overall verdict is the AND over all produced comparisons and false when
// none were produced.
func Compare(form *domain.FormFields, label *domain.ExtractedFields) domain.ComparisonResult {
	results := make(map[domain.FieldKey]domain.FieldComparison)
	allMatch := true

	for _, key := range domain.AllFieldKeys() {
		formVal := form.Value(key)
		labelVal := label.Value(key)
		if formVal == nil && labelVal == nil {
			continue
		}
		fc := compareField(key, formVal, labelVal)
		results[key] = fc
		if !fc.Match {
			allMatch = false
		}
	}

	if len(results) == 0 {
		allMatch = false
	}

	return domain.ComparisonResult{
		IsMatch:      allMatch,
		FieldResults: results,
		Explanation:  buildExplanation(results),
	}
}

// compareField canonicalizes both sides and compares canonical forms exactly.
// A parse failure leaves the normalized value nil and forces match=false for
// this field only.
func compareField(key domain.FieldKey, formVal, labelVal *string) domain.FieldComparison {
	fc := domain.FieldComparison{
		FormValue:       formVal,
		LabelValue:      labelVal,
		NormalizedForm:  canonicalizePtr(key, formVal),
		NormalizedLabel: canonicalizePtr(key, labelVal),
	}
	fc.Match = fc.NormalizedForm != nil && fc.NormalizedLabel != nil &&
		*fc.NormalizedForm == *fc.NormalizedLabel
	return fc
}

func canonicalizePtr(key domain.FieldKey, raw *string) *string {
	if raw == nil {
		return nil
	}
	canonical, ok := Canonicalize(key, *raw)
	if !ok {
		return nil
	}
	return &canonical
}

// buildExplanation renders a deterministic summary of the comparison set. It
// is a pure function of the field results so the wording is reproducible and
// auditable; the mismatching fields are always named.
func buildExplanation(results map[domain.FieldKey]domain.FieldComparison) string {
	if len(results) == 0 {
		return "No fields could be compared because no label data was available."
	}

	var matched, mismatched, details []string
	for _, key := range domain.AllFieldKeys() {
		fc, ok := results[key]
		if !ok {
			continue
		}
		if fc.Match {
			matched = append(matched, key.DisplayName())
			continue
		}
		mismatched = append(mismatched, key.DisplayName())
		details = append(details, fmt.Sprintf("%s: the form says %s but the label shows %s",
			key.DisplayName(), describeValue(fc.FormValue), describeValue(fc.LabelValue)))
	}

	if len(mismatched) == 0 {
		return "All fields match between the form data and the label image. The label verification is successful."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mismatch found in %s. ", joinNames(mismatched))
	b.WriteString(strings.Join(details, "; "))
	b.WriteString(".")
	switch len(matched) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " %s matches the label.", matched[0])
	default:
		fmt.Fprintf(&b, " %s match the label.", joinNames(matched))
	}
	return b.String()
}

func describeValue(v *string) string {
	if v == nil {
		return "no value"
	}
	return fmt.Sprintf("%q", *v)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
