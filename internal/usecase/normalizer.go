package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	abvSuffixRegex = regexp.MustCompile(`\s*(?:abv|alc\.?\s*/?\s*vol\.?|alc\.?|vol\.?)$`)
	proofRegex     = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*proof\.?$`)
	percentRegex   = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*(?:%|percent|pct)?$`)
	volumeRegex    = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([a-z][a-z. ]*)?$`)
)

// volumeUnitFactors maps recognized volume unit spellings to their mL ratio.
// 1 cc = 1 mL, 1 cL = 10 mL, 1 L = 1000 mL, 1 fl oz = 29.5735 mL.
var volumeUnitFactors = map[string]float64{
	"ml": 1, "cc": 1,
	"milliliter": 1, "milliliters": 1, "millilitre": 1, "millilitres": 1,
	"l": 1000, "liter": 1000, "liters": 1000, "litre": 1000, "litres": 1000,
	"cl": 10, "centiliter": 10, "centiliters": 10, "centilitre": 10, "centilitres": 10,
	"oz": 29.5735, "floz": 29.5735, "fl oz": 29.5735, "fl. oz": 29.5735, "fl.oz": 29.5735,
}

// canonicalizeFunc turns a raw field value into its canonical comparison form.
// The boolean is false when the value cannot be parsed for that field.
type canonicalizeFunc func(raw string) (string, bool)

// canonicalizers keys the per-field normalization strategy, so adding a new
// field or unit family is a local, additive change.
var canonicalizers = map[domain.FieldKey]canonicalizeFunc{
	domain.FieldBrand:  canonicalizeText,
	domain.FieldType:   canonicalizeText,
	domain.FieldABV:    canonicalizeABV,
	domain.FieldVolume: canonicalizeVolume,
}

// Canonicalize returns the canonical form of raw for the given field.
// Canonicalization is idempotent: feeding a canonical value back in returns it
// unchanged.
func Canonicalize(key domain.FieldKey, raw string) (string, bool) {
	fn, ok := canonicalizers[key]
	if !ok {
		return "", false
	}
	return fn(raw)
}

// canonicalizeText folds brand/type values: lowercase, collapsed internal
// whitespace, leading/trailing punctuation stripped. Equality on canonical
// text is exact; near-misses stay visible to the reviewer as mismatches.
func canonicalizeText(raw string) (string, bool) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	folded = strings.Join(strings.Fields(folded), " ")
	folded = strings.TrimFunc(folded, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	if folded == "" {
		return "", false
	}
	return folded, true
}

// canonicalizeABV reduces ABV spellings ("40%", "45% ABV", "80 proof",
// "45 percent") to a fixed one-decimal percent string. Proof values convert
// at proof/2.
func canonicalizeABV(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimSpace(abvSuffixRegex.ReplaceAllString(v, ""))

	if m := proofRegex.FindStringSubmatch(v); m != nil {
		proof, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return "", false
		}
		return formatABV(proof / 2), true
	}

	if m := percentRegex.FindStringSubmatch(v); m != nil {
		percent, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return "", false
		}
		return formatABV(percent), true
	}

	return "", false
}

// canonicalizeVolume converts recognized unit suffixes to a single " mL"
// canonical token. A bare number is treated as already-mL; an unrecognized
// unit is a parse failure for the field.
func canonicalizeVolume(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	m := volumeRegex.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	quantity, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}

	unit := strings.Join(strings.Fields(m[2]), " ")
	factor := 1.0
	if unit != "" {
		f, ok := volumeUnitFactors[unit]
		if !ok {
			return "", false
		}
		factor = f
	}

	return formatVolume(quantity * factor), true
}

// formatABV applies the fixed rounding convention: one decimal place, trailing
// percent sign. Rounding happens before equality so the proof conversion never
// compares raw floats.
func formatABV(v float64) string {
	return strconv.FormatFloat(round1(v), 'f', 1, 64) + "%"
}

// formatVolume renders whole milliliter values without a decimal part and
// everything else at one decimal place.
func formatVolume(v float64) string {
	v = round1(v)
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10) + " mL"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " mL"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
