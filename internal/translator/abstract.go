package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

// abstractMaxInputRunes caps the text sent to the summarizer. The
// first page is usually enough to characterize a document.
const abstractMaxInputRunes = 4000

// Summarizer produces a short document abstract from the first page.
// The abstract is used as translation context for every page instead
// of the rolling previous-page tail.
type Summarizer struct {
	apiKey  string
	baseURL string
	model   string
}

// NewSummarizer creates a Summarizer from the application config.
func NewSummarizer(cfg *types.Config) *Summarizer {
	return &Summarizer{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Summarize generates an abstract of the given first-page text in the
// target language. Summarization is best-effort context enrichment, so
// the caller should treat an error as "no abstract available" rather
// than a run failure.
func (s *Summarizer) Summarize(ctx context.Context, firstPage string, target types.Language) (string, error) {
	if s.apiKey == "" {
		return "", types.NewAppError(types.ErrConfig, "API key is not configured", nil)
	}

	text := firstPage
	if runes := []rune(text); len(runes) > abstractMaxInputRunes {
		text = string(runes[:abstractMaxInputRunes])
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  s.model,
		APIKey: s.apiKey,
	}
	if s.baseURL != "" {
		chatModelConfig.BaseURL = s.baseURL
	}

	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return "", types.NewAppError(types.ErrAPICall, "failed to create chat model", err)
	}

	logger.Info("generating document abstract", logger.String("model", s.model))

	response, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(
			"You are a document analyst. Summarize the provided document excerpt in %s in 2-3 sentences. "+
				"Capture the subject matter, domain terminology, and style so a translator can use the summary "+
				"as background context. Output only the summary.", target)),
		schema.UserMessage(text),
	})
	if err != nil {
		logger.Warn("abstract generation failed", logger.Err(err))
		return "", types.NewAppError(types.ErrAPICall, "abstract generation failed", err)
	}

	abstract := strings.TrimSpace(response.Content)
	if abstract == "" {
		return "", types.NewAppError(types.ErrAPICall, "abstract generation returned empty content", nil)
	}

	logger.Debug("abstract generated", logger.Int("length", len(abstract)))
	return abstract, nil
}
