package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
)

const validatePrompt = `You are inspecting a photo submitted as a beverage alcohol label.
Answer with a single JSON object and nothing else:
{"is_alcohol_label": <true if the image shows an alcohol beverage label>, "quality_ok": <true if the text on the label is legible>, "message": "<one short sentence>"}`

const extractPrompt = `You are reading a beverage alcohol label. Extract these fields exactly as printed on the label:
- brand: the brand name
- type: the class or type of the beverage (e.g. "Tennessee Whiskey", "India Pale Ale")
- abv: the alcohol content as printed (e.g. "40% ALC/VOL", "80 proof")
- volume: the net contents as printed (e.g. "750 mL", "70cl")
Answer with a single JSON object and nothing else:
{"brand": <string or null>, "type": <string or null>, "abv": <string or null>, "volume": <string or null>}
Use null for any field not visible on the label. Do not guess or infer values that are not printed.`

// Config holds settings for the vision API client.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	RequestsPerHour int
}

// Client calls an OpenAI-compatible chat completion endpoint with image input.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
}

// NewClient creates a vision client. An empty API key is allowed at
// construction time; calls then fail with ErrVisionDisabled.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600), 5)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		rateLimiter: limiter,
	}
}

// ValidateLabel asks the model whether the image is a plausible, legible
// alcohol label.
func (c *Client) ValidateLabel(ctx context.Context, image []byte) (*domain.LabelValidation, error) {
	raw, err := c.generate(ctx, validatePrompt, image)
	if err != nil {
		return nil, err
	}
	var validation domain.LabelValidation
	if err := json.Unmarshal([]byte(normalizeJSONBlock(raw)), &validation); err != nil {
		return nil, fmt.Errorf("%w: decode validation: %v", domain.ErrVisionAPIFailure, err)
	}
	return &validation, nil
}

// ExtractFields asks the model for the four label fields as printed. Fields
// the model reports as null stay nil.
func (c *Client) ExtractFields(ctx context.Context, image []byte) (*domain.ExtractedFields, error) {
	raw, err := c.generate(ctx, extractPrompt, image)
	if err != nil {
		return nil, err
	}
	var fields domain.ExtractedFields
	if err := json.Unmarshal([]byte(normalizeJSONBlock(raw)), &fields); err != nil {
		return nil, fmt.Errorf("%w: decode extraction: %v", domain.ErrVisionAPIFailure, err)
	}
	dropBlankFields(&fields)
	return &fields, nil
}

// dropBlankFields coerces empty or whitespace-only values to nil. Models
// sometimes answer "" instead of null, and an empty string must not read as a
// present field downstream.
func dropBlankFields(fields *domain.ExtractedFields) {
	for _, value := range []**string{&fields.Brand, &fields.Type, &fields.ABV, &fields.Volume} {
		if *value != nil && strings.TrimSpace(**value) == "" {
			*value = nil
		}
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generate performs one chat completion with the prompt and the image attached
// as a data URI. Transport errors and 5xx responses get a single bounded retry;
// 4xx responses do not, since repeating a rejected request cannot succeed.
func (c *Client) generate(ctx context.Context, prompt string, image []byte) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrVisionDisabled
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: imageDataURI(image)}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		content, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		logrus.WithError(err).WithField("attempt", attempt).Warn("vision request failed")
		select {
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, body []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", domain.ErrVisionAPIFailure, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= http.StatusInternalServerError
		return "", retryable, fmt.Errorf("%w: status %d: %s", domain.ErrVisionAPIFailure, resp.StatusCode, truncate(string(respBody), 200))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", false, fmt.Errorf("%w: decode response: %v", domain.ErrVisionAPIFailure, err)
	}
	if len(chat.Choices) == 0 {
		return "", false, fmt.Errorf("%w: empty response", domain.ErrVisionAPIFailure)
	}
	return chat.Choices[0].Message.Content, false, nil
}

// imageDataURI encodes the image bytes as a data URI, sniffing the MIME type
// from the leading bytes.
func imageDataURI(image []byte) string {
	mime := http.DetectContentType(image)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// normalizeJSONBlock strips markdown code fences that models wrap around JSON
// output despite instructions.
func normalizeJSONBlock(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
