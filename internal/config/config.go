// Package config provides configuration management for the CJK document
// translator.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "cjk-translator-config.json"
	// EnvAPIKey is the environment variable name for the API key
	EnvAPIKey = "OPENAI_API_KEY"
	// EnvBaseURL is the environment variable name for the API base URL
	EnvBaseURL = "OPENAI_BASE_URL"
	// DefaultBaseURL is the default OpenAI-compatible API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default model to use for translation
	DefaultModel = "gpt-4o"
	// DefaultTemperature is the sampling temperature for translation calls
	DefaultTemperature = 0.5
	// DefaultTopP is the nucleus sampling parameter for translation calls
	DefaultTopP = 0.5
	// DefaultMaxTokens is the completion token cap per call
	DefaultMaxTokens = 1000
	// DefaultContextPercentage drops the leading 65% of the previous
	// page when building context; the trailing 35% is kept.
	DefaultContextPercentage = 0.65
	// DefaultTargetPageSize is the logical page size for flowing text
	DefaultTargetPageSize = 2000
	// DefaultMaxRetries bounds content-filter retries per call
	DefaultMaxRetries = 10
	// DefaultBaseRetryDelaySeconds is the backoff base delay
	DefaultBaseRetryDelaySeconds = 3.0
	// DefaultInterPageDelaySeconds is the throttle between page calls
	DefaultInterPageDelaySeconds = 3.0
)

// Manager manages application configuration
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a new Manager with the specified config path.
// If configPath is empty, it uses the default path in the user's home
// directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "cjk-translator", DefaultConfigFileName)
	}

	logger.Info("config manager initialized", logger.String("configPath", configPath))
	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		APIKey:                "",
		BaseURL:               DefaultBaseURL,
		Model:                 DefaultModel,
		Temperature:           DefaultTemperature,
		TopP:                  DefaultTopP,
		MaxTokens:             DefaultMaxTokens,
		ContextPercentage:     DefaultContextPercentage,
		TargetPageSize:        DefaultTargetPageSize,
		MaxRetries:            DefaultMaxRetries,
		BaseRetryDelaySeconds: DefaultBaseRetryDelaySeconds,
		InterPageDelaySeconds: DefaultInterPageDelaySeconds,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, defaults are used. Environment variables
// take precedence for the API key and base URL when the file values
// are empty.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	var raw []byte
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded",
				logger.String("path", m.configPath),
				logger.Int("apiKeyLength", len(config.APIKey)),
				logger.String("baseURL", config.BaseURL),
				logger.String("model", config.Model))
			m.config = config
			raw = data
		}
	}

	m.applyDefaults(raw)
	m.applyEnvOverrides()
	return nil
}

// applyDefaults backfills missing fields with defaults. Temperature
// and top_p are valid at zero, so for those two the raw file content
// decides presence; every other field treats the zero value as unset.
func (m *Manager) applyDefaults(raw []byte) {
	var present struct {
		Temperature *float64 `json:"temperature"`
		TopP        *float64 `json:"top_p"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &present)
	}

	if m.config.BaseURL == "" {
		m.config.BaseURL = DefaultBaseURL
	}
	if m.config.Model == "" {
		m.config.Model = DefaultModel
	}
	if present.Temperature == nil && m.config.Temperature == 0 {
		m.config.Temperature = DefaultTemperature
	}
	if present.TopP == nil && m.config.TopP == 0 {
		m.config.TopP = DefaultTopP
	}
	if m.config.MaxTokens == 0 {
		m.config.MaxTokens = DefaultMaxTokens
	}
	if m.config.ContextPercentage == 0 {
		m.config.ContextPercentage = DefaultContextPercentage
	}
	if m.config.TargetPageSize == 0 {
		m.config.TargetPageSize = DefaultTargetPageSize
	}
	if m.config.MaxRetries == 0 {
		m.config.MaxRetries = DefaultMaxRetries
	}
	if m.config.BaseRetryDelaySeconds == 0 {
		m.config.BaseRetryDelaySeconds = DefaultBaseRetryDelaySeconds
	}
	if m.config.InterPageDelaySeconds == 0 {
		m.config.InterPageDelaySeconds = DefaultInterPageDelaySeconds
	}
	if m.config.PricingConfigPath == "" {
		m.config.PricingConfigPath = filepath.Join(filepath.Dir(m.configPath), "pricing_config.json")
	}
	if m.config.UsageDataPath == "" {
		m.config.UsageDataPath = filepath.Join(filepath.Dir(m.configPath), "token_usage.json")
	}
}

// applyEnvOverrides fills the API key and base URL from the environment
// when the config file leaves them empty
func (m *Manager) applyEnvOverrides() {
	if m.config.APIKey == "" {
		if key := os.Getenv(EnvAPIKey); key != "" {
			logger.Debug("API key loaded from environment")
			m.config.APIKey = key
		}
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" && m.config.BaseURL == DefaultBaseURL {
		m.config.BaseURL = baseURL
	}
}

// Save writes the current configuration to the config file
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// Get returns the loaded configuration
func (m *Manager) Get() *types.Config {
	return m.config
}

// ConfigPath returns the config file path
func (m *Manager) ConfigPath() string {
	return m.configPath
}
