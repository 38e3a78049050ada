// Package types defines core data types and enums shared across the
// CJK document translator.
package types

// Language is a supported translation language.
type Language string

const (
	LanguageChinese  Language = "Chinese"
	LanguageJapanese Language = "Japanese"
	LanguageKorean   Language = "Korean"
	LanguageEnglish  Language = "English"
)

// LanguageMap maps single-letter language codes to languages.
// Direction codes are two letters, e.g. "CE" = Chinese to English.
var LanguageMap = map[byte]Language{
	'C': LanguageChinese,
	'J': LanguageJapanese,
	'K': LanguageKorean,
	'E': LanguageEnglish,
}

// OutputFormat controls the formatting instruction embedded in the
// translation prompt. File-bound output asks for real line breaks,
// console output allows literal "\n" sequences.
type OutputFormat string

const (
	OutputConsole OutputFormat = "console"
	OutputTXT     OutputFormat = "txt"
	OutputPDF     OutputFormat = "pdf"
	OutputFile    OutputFormat = "file"
)

// Config is the application configuration. It is constructed once at
// startup and passed by reference to the components that need it.
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`

	// Sampling parameters sent with every chat-completion call
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`

	// ContextPercentage is the fraction of the previous page that is
	// dropped when building context; the trailing remainder is used.
	ContextPercentage float64 `json:"context_percentage"`

	// TargetPageSize is the character threshold for one logical page
	// when paginating flowing-text formats.
	TargetPageSize int `json:"target_page_size"`

	// MaxRetries bounds content-filter retries for a single call.
	MaxRetries int `json:"max_retries"`
	// BaseRetryDelaySeconds is the exponential backoff base delay.
	BaseRetryDelaySeconds float64 `json:"base_retry_delay_seconds"`
	// InterPageDelaySeconds is the fixed delay between page calls.
	InterPageDelaySeconds float64 `json:"inter_page_delay_seconds"`

	// PricingConfigPath and UsageDataPath locate the persisted pricing
	// catalog and per-user usage ledger. Empty means the defaults next
	// to the config file.
	PricingConfigPath string `json:"pricing_config_path"`
	UsageDataPath     string `json:"usage_data_path"`
}

// ErrorCode classifies application errors.
type ErrorCode string

const (
	ErrNetwork       ErrorCode = "NETWORK_ERROR"
	ErrAPICall       ErrorCode = "API_CALL_ERROR"
	ErrAPIRateLimit  ErrorCode = "API_RATE_LIMIT"
	ErrAPIAuth       ErrorCode = "API_AUTH_ERROR"
	ErrContextLength ErrorCode = "CONTEXT_LENGTH_ERROR"
	ErrContentFilter ErrorCode = "CONTENT_FILTER_ERROR"
	ErrConfig        ErrorCode = "CONFIG_ERROR"
	ErrPricing       ErrorCode = "PRICING_ERROR"
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrExtract       ErrorCode = "EXTRACT_ERROR"
	ErrOutput        ErrorCode = "OUTPUT_ERROR"
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
)

// AppError is the application error type carrying a classification code.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode carried by err, or ErrInternal when err
// is not an AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternal
}
