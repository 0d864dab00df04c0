package domain

// FieldKey identifies one of the four verifiable label fields.
type FieldKey string

const (
	FieldBrand  FieldKey = "brand"
	FieldType   FieldKey = "type"
	FieldABV    FieldKey = "abv"
	FieldVolume FieldKey = "volume"
)

// AllFieldKeys returns the verifiable fields in their fixed display order.
func AllFieldKeys() []FieldKey {
	return []FieldKey{FieldBrand, FieldType, FieldABV, FieldVolume}
}

// DisplayName returns the human-readable name used in explanations.
func (k FieldKey) DisplayName() string {
	switch k {
	case FieldBrand:
		return "Brand"
	case FieldType:
		return "Type"
	case FieldABV:
		return "ABV"
	case FieldVolume:
		return "Volume"
	}
	return string(k)
}

// BoundingBox is a pixel rectangle in source-image coordinates, origin top-left.
// Width and Height are always positive when a box is present; absence of a box
// is represented by a nil *BoundingBox, never a zero-sized one.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TextFragment is one OCR-detected span of text with its location and
// confidence in [0,1]. Fragments carry no field semantics.
type TextFragment struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"bbox"`
}

// ExtractedFields holds the vision model's structured reading of a label.
// Values not found on the label are nil, never empty strings. Error is set
// when the extraction call itself failed; the quality flags are set by the
// validation pass and never abort processing.
type ExtractedFields struct {
	Brand          *string `json:"brand"`
	Type           *string `json:"type"`
	ABV            *string `json:"abv"`
	Volume         *string `json:"volume"`
	Error          string  `json:"error,omitempty"`
	IsAlcoholLabel bool    `json:"is_alcohol_label"`
	QualityOK      bool    `json:"quality_ok"`
}

// Value returns the extracted value for key, nil when absent.
func (e *ExtractedFields) Value(key FieldKey) *string {
	if e == nil {
		return nil
	}
	switch key {
	case FieldBrand:
		return e.Brand
	case FieldType:
		return e.Type
	case FieldABV:
		return e.ABV
	case FieldVolume:
		return e.Volume
	}
	return nil
}

// LabelValidation is the outcome of the label plausibility and quality check.
type LabelValidation struct {
	IsAlcoholLabel bool   `json:"is_alcohol_label"`
	QualityOK      bool   `json:"quality_ok"`
	Message        string `json:"message"`
}

// FormFields carries the operator-submitted values. Empty strings mean the
// operator left the field blank.
type FormFields struct {
	Brand  string `json:"brand"`
	Type   string `json:"type"`
	ABV    string `json:"abv"`
	Volume string `json:"volume"`
}

// Value returns the submitted value for key, nil when the field was left blank.
func (f *FormFields) Value(key FieldKey) *string {
	if f == nil {
		return nil
	}
	var v string
	switch key {
	case FieldBrand:
		v = f.Brand
	case FieldType:
		v = f.Type
	case FieldABV:
		v = f.ABV
	case FieldVolume:
		v = f.Volume
	}
	if v == "" {
		return nil
	}
	return &v
}

// FieldComparison is the per-field verdict. Normalized values are nil when the
// raw value was absent or could not be canonicalized.
type FieldComparison struct {
	Match           bool    `json:"match"`
	FormValue       *string `json:"form_value"`
	LabelValue      *string `json:"label_value"`
	NormalizedForm  *string `json:"normalized_form"`
	NormalizedLabel *string `json:"normalized_label"`
}

// ComparisonResult aggregates the field comparisons into an overall verdict.
// IsMatch is the AND over all produced comparisons and false when none were
// produced.
type ComparisonResult struct {
	IsMatch      bool                         `json:"is_match"`
	FieldResults map[FieldKey]FieldComparison `json:"field_results"`
	Explanation  string                       `json:"explanation"`
}

// ImageResult holds the per-image artifacts of a verification run.
type ImageResult struct {
	OCRRawText     string                    `json:"ocr_raw_text"`
	ExtractedData  ExtractedFields           `json:"extracted_data"`
	BoundingBoxes  map[FieldKey]*BoundingBox `json:"bounding_boxes"`
	AnnotatedImage string                    `json:"annotated_image,omitempty"`
}

// VerificationResponse is the terminal artifact of one verify request. It is
// always well-formed; Error is populated when extraction degraded.
type VerificationResponse struct {
	Success    bool             `json:"success"`
	Results    []ImageResult    `json:"results"`
	Comparison ComparisonResult `json:"comparison"`
	Error      string           `json:"error,omitempty"`
}
