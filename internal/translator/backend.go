package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

const (
	// DefaultTimeout is the HTTP client timeout for API calls
	DefaultTimeout = 120 * time.Second
)

// Usage carries the token counts metered by the provider for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the result of one successful chat-completion call.
type Completion struct {
	// Text is the model's response content
	Text string
	// Model is the model name the provider echoed back, which is the
	// name the call is billed under
	Model string
	// Usage holds the metered token counts; HasUsage is false when the
	// provider returned no usage block
	Usage    Usage
	HasUsage bool
}

// Backend is the chat-completion boundary the engine drives. Failed
// calls return an AppError whose code classifies the failure:
// CONTEXT_LENGTH_ERROR and CONTENT_FILTER_ERROR are the two
// recoverable signals, API_AUTH_ERROR and API_RATE_LIMIT are fatal.
// Model is the name requested on every call; it prices usage when the
// provider bills under a different snapshot name.
type Backend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
	Model() string
}

// OpenAIBackend calls an OpenAI-compatible chat-completions endpoint.
type OpenAIBackend struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	topP        float64
	maxTokens   int
	client      *http.Client
}

// NewOpenAIBackend creates a backend from the application config.
func NewOpenAIBackend(cfg *types.Config) *OpenAIBackend {
	return &OpenAIBackend{
		apiKey:      cfg.APIKey,
		apiURL:      normalizeAPIURL(cfg.BaseURL),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: DefaultTimeout},
	}
}

// Model returns the model name sent with every request.
func (b *OpenAIBackend) Model() string {
	return b.model
}

// SetAPIURL overrides the endpoint URL (useful for mock servers).
func (b *OpenAIBackend) SetAPIURL(url string) {
	b.apiURL = normalizeAPIURL(url)
}

// normalizeAPIURL ensures the URL ends with /chat/completions
func normalizeAPIURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	if strings.HasSuffix(url, "/chat/completions") {
		return url
	}
	return url + "/chat/completions"
}

// chatCompletionRequest is the request body for the chat-completions API.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the response from the chat-completions API.
type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *Usage       `json:"usage"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Complete performs one chat-completion call.
func (b *OpenAIBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	if b.apiKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "API key is not configured", nil)
	}

	reqBody := chatCompletionRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: b.temperature,
		TopP:        b.topP,
		MaxTokens:   b.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to marshal request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to create HTTP request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	logger.Debug("calling chat-completions API", logger.String("model", b.model))
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, types.NewAppError(types.ErrNetwork, "API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrNetwork, "failed to read API response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(resp.StatusCode, body)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, types.NewAppError(types.ErrAPICall, "failed to parse API response", err)
	}

	if chatResp.Error != nil {
		return nil, classifyAPIError(chatResp.Error)
	}
	if len(chatResp.Choices) == 0 {
		return nil, types.NewAppError(types.ErrAPICall, "API returned no choices", nil)
	}

	choice := chatResp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return nil, types.NewAppError(types.ErrContentFilter,
			"response truncated by the provider's content filter", nil)
	}

	completion := &Completion{
		Text:  choice.Message.Content,
		Model: chatResp.Model,
	}
	if completion.Model == "" {
		completion.Model = b.model
	}
	if chatResp.Usage != nil {
		completion.Usage = *chatResp.Usage
		completion.HasUsage = true
	}

	return completion, nil
}

// classifyHTTPError maps an HTTP error status to an AppError. The
// response body is inspected because context-length and content-filter
// rejections arrive as 400s distinguishable only by their error code.
func classifyHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Error apiError `json:"error"`
	}
	details := ""
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		details = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.NewAppErrorWithDetails(types.ErrAPIAuth,
			"API authentication failed", "invalid API key or unauthorized access", nil)
	case http.StatusTooManyRequests:
		return types.NewAppErrorWithDetails(types.ErrAPIRateLimit,
			"API rate limit exceeded", details, nil)
	case http.StatusBadRequest:
		if errResp.Error.Message != "" {
			return classifyAPIError(&errResp.Error)
		}
		return types.NewAppErrorWithDetails(types.ErrAPICall, "invalid API request", details, nil)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return types.NewAppErrorWithDetails(types.ErrAPICall,
			"API server error", fmt.Sprintf("status %d: %s", statusCode, details), nil)
	default:
		return types.NewAppErrorWithDetails(types.ErrAPICall,
			"API request failed", fmt.Sprintf("status %d: %s", statusCode, details), nil)
	}
}

// classifyAPIError maps an in-body API error to an AppError.
func classifyAPIError(apiErr *apiError) error {
	msg := strings.ToLower(apiErr.Message)
	code := strings.ToLower(apiErr.Code)

	switch {
	case code == "context_length_exceeded" || strings.Contains(msg, "context_length_exceeded") ||
		strings.Contains(msg, "maximum context length"):
		return types.NewAppErrorWithDetails(types.ErrContextLength,
			"context length exceeded", apiErr.Message, nil)
	case code == "content_filter" || strings.Contains(msg, "content_filter") ||
		strings.Contains(msg, "content management policy"):
		return types.NewAppErrorWithDetails(types.ErrContentFilter,
			"request rejected by the provider's content filter", apiErr.Message, nil)
	case strings.Contains(msg, "rate_limit") || strings.Contains(msg, "rate limit"):
		return types.NewAppErrorWithDetails(types.ErrAPIRateLimit,
			"API rate limit exceeded", apiErr.Message, nil)
	case strings.Contains(msg, "authentication") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid api key"):
		return types.NewAppErrorWithDetails(types.ErrAPIAuth,
			"API authentication failed", apiErr.Message, nil)
	default:
		return types.NewAppErrorWithDetails(types.ErrAPICall,
			"API returned error", apiErr.Message, nil)
	}
}
