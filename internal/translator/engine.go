// Package translator drives document translation: it submits logical
// pages to the model backend, recursively bisects pages that exceed
// the model's context window, retries content-policy rejections with
// exponential backoff, and records token usage for every metered call.
package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cjk-translator/internal/extractor"
	"cjk-translator/internal/logger"
	"cjk-translator/internal/prompt"
	"cjk-translator/internal/types"
	"cjk-translator/internal/usage"
)

// splitSearchWindow is the number of runes inspected on each side of
// the midpoint when looking for a natural split boundary.
const splitSearchWindow = 200

// callResult is the tagged outcome of a single page-part translation.
type callResult struct {
	kind resultKind
	text string
}

type resultKind int

const (
	callSuccess resultKind = iota
	callContextTooLong
	callContentFiltered
)

// ProgressFunc reports page-level progress during document translation.
type ProgressFunc func(page, totalPages int)

// Engine converts extracted chunks into translated page text.
type Engine struct {
	cfg     *types.Config
	backend Backend
	ledger  *usage.Ledger

	// sleep is replaceable in tests to avoid real backoff waits
	sleep func(time.Duration)
}

// NewEngine creates an Engine. The ledger may be nil, in which case
// calls are not metered (used by tests and dry runs).
func NewEngine(cfg *types.Config, backend Backend, ledger *usage.Ledger) *Engine {
	return &Engine{
		cfg:     cfg,
		backend: backend,
		ledger:  ledger,
		sleep:   time.Sleep,
	}
}

// isFatal reports whether an error must abort the whole run rather
// than be degraded to an inline page marker.
func isFatal(err error) bool {
	switch types.CodeOf(err) {
	case types.ErrAPIAuth, types.ErrAPIRateLimit, types.ErrConfig, types.ErrPricing:
		return true
	default:
		return false
	}
}

// backoffDelay computes the delay before retry attempt (0-based):
// exponential in the attempt number with a small linear jitter term.
func (e *Engine) backoffDelay(attempt int) time.Duration {
	base := e.cfg.BaseRetryDelaySeconds
	delay := base*float64(int64(1)<<uint(attempt)) + 0.5*float64(attempt)
	return time.Duration(delay * float64(time.Second))
}

// translateText performs one model call for a page part, retrying
// content-policy rejections up to MaxRetries times with exponential
// backoff. Context-length overflow is returned as a signal, never
// retried. Any other API failure is fatal and propagates.
func (e *Engine) translateText(ctx context.Context, processText string, source, target types.Language, format types.OutputFormat) (callResult, error) {
	systemPrompt := prompt.BuildSystemPrompt(source, target, format)
	userPrompt := prompt.BuildUserPrompt(source, target, processText)

	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxRetries; attempt++ {
		completion, err := e.backend.Complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			e.recordUsage(completion)
			return callResult{kind: callSuccess, text: completion.Text}, nil
		}

		switch types.CodeOf(err) {
		case types.ErrContextLength:
			logger.Debug("context length exceeded, part will be split")
			return callResult{kind: callContextTooLong}, nil
		case types.ErrContentFilter:
			lastErr = err
			logger.Warn("content filter triggered, backing off",
				logger.Int("attempt", attempt+1),
				logger.Int("maxRetries", e.cfg.MaxRetries))
			if attempt < e.cfg.MaxRetries-1 {
				e.sleep(e.backoffDelay(attempt))
			}
		default:
			logger.Error("translation call failed", err)
			return callResult{}, err
		}
	}

	logger.Warn("content filter retries exhausted, skipping part", logger.Err(lastErr))
	return callResult{kind: callContentFiltered}, nil
}

// recordUsage meters a successful completion into the ledger. Calls
// without usage information are logged and not recorded.
func (e *Engine) recordUsage(completion *Completion) {
	if e.ledger == nil {
		return
	}
	if !completion.HasUsage {
		logger.Warn("no token usage information in response", logger.String("model", completion.Model))
		return
	}

	record, err := e.ledger.RecordUsage(completion.Model,
		completion.Usage.PromptTokens,
		completion.Usage.CompletionTokens,
		completion.Usage.TotalTokens,
		e.backend.Model())
	if err != nil {
		// Metering failures must not lose a finished translation
		logger.Error("failed to record token usage", err)
		return
	}

	logger.Info("tokens used",
		logger.Int("prompt", completion.Usage.PromptTokens),
		logger.Int("completion", completion.Usage.CompletionTokens),
		logger.Int("total", completion.Usage.TotalTokens),
		logger.Float64("cost", record.TotalCost))
}

// GenerateText translates one logical page, splitting it as needed to
// fit the model's context window. Parts are processed strictly FIFO
// with split halves reinserted at the front in left-to-right order, so
// the joined result preserves the source reading order. The returned
// text carries the page-number banner.
func (e *Engine) GenerateText(ctx context.Context, abstract, pageText, previousPage, previousTranslated string, pageNum int, source, target types.Language, format types.OutputFormat) (string, error) {
	var results []string
	parts := NewDeque(pageText)

	for parts.Len() > 0 {
		part, _ := parts.PopFront()

		processText := prompt.BuildProcessText(abstract, part, previousPage, previousTranslated, e.cfg.ContextPercentage)
		result, err := e.translateText(ctx, processText, source, target, format)
		if err != nil {
			return "", err
		}

		switch result.kind {
		case callContextTooLong:
			left, right := splitMiddle(part)
			if left == "" || right == "" {
				// Unsplittable part that still overflows: give up on it
				logger.Error("part exceeds context window but cannot be split further", nil,
					logger.Int("page", pageNum+1), logger.Int("partLength", len(part)))
				results = append(results, fmt.Sprintf("\n***Translation error on page %d.***\n", pageNum+1))
				continue
			}
			// Front-insert in original order: left is processed next
			parts.PushFront(right)
			parts.PushFront(left)
		case callContentFiltered:
			results = append(results, fmt.Sprintf(
				"\n***Text skipped on page %d after repeated content-policy rejections.***\n", pageNum+1))
		case callSuccess:
			if result.text == "" {
				results = append(results, fmt.Sprintf("\n***Translation error on page %d.***\n", pageNum+1))
			} else {
				results = append(results, result.text)
			}
		}
	}

	return fmt.Sprintf("\n\n-- Page %d -- \n\n", pageNum+1) + strings.Join(results, "\n"), nil
}

// splitMiddle bisects text at the character midpoint, preferring a
// nearby paragraph break, then a nearby sentence-ending punctuation
// mark, then the raw midpoint. Both halves are returned untrimmed so
// their concatenation reconstructs the input exactly.
func splitMiddle(text string) (string, string) {
	runes := []rune(text)
	if len(runes) < 2 {
		return "", ""
	}
	mid := len(runes) / 2

	if cut, ok := nearestParagraphBreak(runes, mid); ok {
		return string(runes[:cut]), string(runes[cut:])
	}
	if cut, ok := nearestSentenceEnd(runes, mid); ok {
		return string(runes[:cut]), string(runes[cut:])
	}
	return string(runes[:mid]), string(runes[mid:])
}

// nearestParagraphBreak finds a "\n\n" boundary within the search
// window around mid and returns the index just after it.
func nearestParagraphBreak(runes []rune, mid int) (int, bool) {
	best := -1
	bestDist := splitSearchWindow + 1
	lo, hi := windowBounds(len(runes), mid)

	for i := lo; i < hi-1; i++ {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			cut := i + 2
			if cut <= 0 || cut >= len(runes) {
				continue
			}
			dist := abs(cut - mid)
			if dist < bestDist {
				best = cut
				bestDist = dist
			}
		}
	}
	return best, best >= 0
}

// sentenceEnders terminate a sentence in the supported languages.
var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true, '．': true,
}

// nearestSentenceEnd finds a sentence boundary within the search
// window around mid and returns the index just after the punctuation.
func nearestSentenceEnd(runes []rune, mid int) (int, bool) {
	best := -1
	bestDist := splitSearchWindow + 1
	lo, hi := windowBounds(len(runes), mid)

	for i := lo; i < hi; i++ {
		if sentenceEnders[runes[i]] {
			cut := i + 1
			if cut <= 0 || cut >= len(runes) {
				continue
			}
			dist := abs(cut - mid)
			if dist < bestDist {
				best = cut
				bestDist = dist
			}
		}
	}
	return best, best >= 0
}

func windowBounds(n, mid int) (int, int) {
	lo := mid - splitSearchWindow
	if lo < 0 {
		lo = 0
	}
	hi := mid + splitSearchWindow
	if hi > n {
		hi = n
	}
	return lo, hi
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// TranslateDocument translates all chunks in order. Pages are
// processed sequentially: the context builder needs the previous
// page's translated output, and the inter-page delay throttles call
// burstiness, so there is deliberately no parallelism here. A failure
// on one page becomes an inline error marker and processing continues;
// only fatal errors (auth, rate-limit exhaustion, configuration) abort
// the run.
func (e *Engine) TranslateDocument(ctx context.Context, chunks []extractor.Chunk, abstract string, source, target types.Language, format types.OutputFormat, progress ProgressFunc) ([]string, error) {
	documentText := make([]string, 0, len(chunks))

	previousPage := ""
	previousTranslated := ""
	for i, chunk := range chunks {
		if i > 0 {
			e.sleep(time.Duration(e.cfg.InterPageDelaySeconds * float64(time.Second)))
		}

		translated, err := e.translatePage(ctx, abstract, chunk, previousPage, previousTranslated, source, target, format)
		if err != nil {
			if isFatal(err) {
				return documentText, err
			}
			logger.Error("page translation failed, continuing with error marker", err,
				logger.Int("page", chunk.Index+1))
			translated = fmt.Sprintf("\n\n-- Page %d -- \n\n\n***Translation error on page %d.***\n",
				chunk.Index+1, chunk.Index+1)
		}

		documentText = append(documentText, translated)
		previousPage = chunk.Text
		previousTranslated = translated

		if progress != nil {
			progress(i+1, len(chunks))
		}
	}

	return documentText, nil
}

// translatePage runs GenerateText for one chunk, converting panics
// from the extraction or splitting path into errors so one bad page
// cannot abort the document.
func (e *Engine) translatePage(ctx context.Context, abstract string, chunk extractor.Chunk, previousPage, previousTranslated string, source, target types.Language, format types.OutputFormat) (translated string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewAppErrorWithDetails(types.ErrInternal,
				"panic during page translation", fmt.Sprintf("%v", r), nil)
		}
	}()

	return e.GenerateText(ctx, abstract, chunk.Text, previousPage, previousTranslated, chunk.Index, source, target, format)
}
