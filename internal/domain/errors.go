package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrVisionAPIFailure is returned when the vision extraction call fails
	ErrVisionAPIFailure = errors.New("vision extraction request failed")

	// ErrVisionDisabled is returned when no vision API key is configured
	ErrVisionDisabled = errors.New("vision extraction not configured")

	// ErrOCRFailure is returned when the OCR engine fails on an image
	ErrOCRFailure = errors.New("ocr text detection failed")

	// ErrUnsupportedImage is returned when image bytes cannot be decoded
	ErrUnsupportedImage = errors.New("unsupported or corrupt image data")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
