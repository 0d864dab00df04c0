package usecase

import (
	"testing"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

func TestCanonicalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Jack Daniel's", "jack daniel's"},
		{"collapses whitespace", "  Tennessee   Whiskey ", "tennessee whiskey"},
		{"strips edge punctuation", "\"Old No. 7\"", "old no. 7"},
		{"single word", "BOURBON", "bourbon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonicalize(domain.FieldBrand, tt.input)
			if !ok {
				t.Fatalf("Canonicalize(%q) not ok, want ok", tt.input)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("rejects empty and punctuation-only input", func(t *testing.T) {
		for _, input := range []string{"", "   ", "---"} {
			if _, ok := Canonicalize(domain.FieldType, input); ok {
				t.Errorf("Canonicalize(%q) ok, want parse failure", input)
			}
		}
	})
}

func TestCanonicalizeABV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare percent", "40%", "40.0%"},
		{"bare number", "40", "40.0%"},
		{"percent with abv suffix", "45% ABV", "45.0%"},
		{"alc/vol suffix", "40% Alc/Vol", "40.0%"},
		{"alc. vol. suffix", "40% ALC. VOL.", "40.0%"},
		{"percent word", "45 percent", "45.0%"},
		{"pct abbreviation", "45 pct", "45.0%"},
		{"proof converts at half", "80 proof", "40.0%"},
		{"proof with decimal", "86.4 Proof", "43.2%"},
		{"decimal percent", "41.25%", "41.2%"},
		{"canonical form is fixed point", "40.0%", "40.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonicalize(domain.FieldABV, tt.input)
			if !ok {
				t.Fatalf("Canonicalize(%q) not ok, want ok", tt.input)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("rejects unparseable values", func(t *testing.T) {
		for _, input := range []string{"", "strong", "forty percent", "%40"} {
			if got, ok := Canonicalize(domain.FieldABV, input); ok {
				t.Errorf("Canonicalize(%q) = %q, want parse failure", input, got)
			}
		}
	})
}

func TestCanonicalizeVolume(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"milliliters", "750mL", "750 mL"},
		{"milliliters spaced", "750 ML", "750 mL"},
		{"bare number is milliliters", "750", "750 mL"},
		{"liters", "0.75L", "750 mL"},
		{"liter word", "1 liter", "1000 mL"},
		{"litre spelling", "2 litres", "2000 mL"},
		{"centiliters", "75cl", "750 mL"},
		{"cubic centimeters", "750cc", "750 mL"},
		{"fluid ounces", "12 fl oz", "354.9 mL"},
		{"fl.oz spelling", "12 fl.oz", "354.9 mL"},
		{"oz alone", "1 oz", "29.6 mL"},
		{"fractional result keeps one decimal", "25.4 oz", "751.2 mL"},
		{"canonical form round-trips", "750 mL", "750 mL"},
		{"fractional canonical round-trips", "751.2 mL", "751.2 mL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonicalize(domain.FieldVolume, tt.input)
			if !ok {
				t.Fatalf("Canonicalize(%q) not ok, want ok", tt.input)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("rejects unknown units and junk", func(t *testing.T) {
		for _, input := range []string{"", "750 gallons", "a bottle", "ml 750"} {
			if got, ok := Canonicalize(domain.FieldVolume, input); ok {
				t.Errorf("Canonicalize(%q) = %q, want parse failure", input, got)
			}
		}
	})
}

func TestCanonicalizeEquivalentVolumes(t *testing.T) {
	// All spellings of three-quarters of a liter collapse to one form.
	inputs := []string{"750mL", "0.75L", "750cc", "75cl", "750 milliliters"}
	for _, input := range inputs {
		got, ok := Canonicalize(domain.FieldVolume, input)
		if !ok {
			t.Fatalf("Canonicalize(%q) not ok, want ok", input)
		}
		if got != "750 mL" {
			t.Errorf("Canonicalize(%q) = %q, want %q", input, got, "750 mL")
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	cases := []struct {
		key   domain.FieldKey
		input string
	}{
		{domain.FieldBrand, "Jack Daniel's"},
		{domain.FieldType, "Tennessee   Whiskey"},
		{domain.FieldABV, "80 proof"},
		{domain.FieldABV, "45% ABV"},
		{domain.FieldVolume, "70cl"},
		{domain.FieldVolume, "25.4 oz"},
	}
	for _, tc := range cases {
		first, ok := Canonicalize(tc.key, tc.input)
		if !ok {
			t.Fatalf("Canonicalize(%s, %q) not ok", tc.key, tc.input)
		}
		second, ok := Canonicalize(tc.key, first)
		if !ok {
			t.Fatalf("Canonicalize(%s, %q) not ok on canonical input", tc.key, first)
		}
		if first != second {
			t.Errorf("Canonicalize(%s, %q): %q re-canonicalized to %q, want unchanged", tc.key, tc.input, first, second)
		}
	}
}
