// Package prompt composes the model prompts for page translation,
// including the cross-page context hint and the numbering-continuation
// heuristic.
package prompt

import (
	"regexp"
	"strings"
)

// numberedContentPatterns recognize numbered lists, references, and
// citations across Arabic, bracketed, circled, and CJK numbering
// conventions.
var numberedContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\s+[^\d]`),      // "1. Some text"
	regexp.MustCompile(`\d+　`),               // "1　" (full-width space)
	regexp.MustCompile(`\d+\s+[^\d]`),        // "1 Some text"
	regexp.MustCompile(`\[\d+\]`),            // "[1]"
	regexp.MustCompile(`\(\d+\)`),            // "(1)"
	regexp.MustCompile(`（\d+）`),              // "（1）"
	regexp.MustCompile(`\d+）`),               // "1）"
	regexp.MustCompile(`[①②③④⑤⑥⑦⑧⑨⑩]`),        // circled numbers
	regexp.MustCompile(`一、|二、|三、|四、|五、`),     // Chinese numerals
	regexp.MustCompile(`(?m)^\d+$`),          // standalone numbers
}

// numberedLinePatterns pick numbered lines out of translated output.
var numberedLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.`),
	regexp.MustCompile(`\d+\)`),
	regexp.MustCompile(`（\d+）`),
	regexp.MustCompile(`\[\d+\]`),
	regexp.MustCompile(`\d+　`),
	regexp.MustCompile(`^\d+\s`),
}

// DetectNumberedContent reports whether text contains numbered lists,
// references, or citations that may continue across pages.
func DetectNumberedContent(text string) bool {
	for _, p := range numberedContentPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// lastNumberedLine returns the last numbered line among the trailing
// lines of translated output, or "" when none is found. Only the last
// few lines are inspected; earlier numbering is stale by definition.
func lastNumberedLine(translated string) string {
	lines := strings.Split(strings.TrimSpace(translated), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}

	last := ""
	for _, line := range lines {
		for _, p := range numberedLinePatterns {
			if p.MatchString(line) {
				last = line
				break
			}
		}
	}
	return last
}

// BuildProcessText assembles the text submitted to the model for one
// page: the current page plus a bounded context block. An abstract, if
// supplied, overrides the rolling previous-page context. When the
// current page carries numbered content, the previous translation's
// last numbered line is appended as a continuation hint so the model
// keeps the sequence going instead of restarting at 1. The hint is
// best-effort; a mismatched continuation is a quality issue, not a
// failure.
func BuildProcessText(abstract, pageText, previousPage, previousTranslated string, contextPercentage float64) string {
	sourceContext := abstract
	if sourceContext == "" && previousPage != "" {
		// Slice on runes so a CJK character is never cut in half
		runes := []rune(previousPage)
		cut := int(float64(len(runes)) * contextPercentage)
		if cut < 0 {
			cut = 0
		}
		if cut > len(runes) {
			cut = len(runes)
		}
		sourceContext = string(runes[cut:])
	}

	var contextParts []string
	if sourceContext != "" {
		contextParts = append(contextParts, sourceContext)
	}

	if previousTranslated != "" && DetectNumberedContent(pageText) {
		if line := lastNumberedLine(previousTranslated); line != "" {
			contextParts = append(contextParts, "Previous numbering ended with: "+line)
		}
	}

	context := ""
	if len(contextParts) > 0 {
		context = "--Context: \n" + strings.Join(contextParts, "\n")
	}

	return "--Current Page: \n" + pageText + "\n" + context
}
