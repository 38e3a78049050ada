package extractor

import (
	"strings"
	"unicode/utf8"

	"cjk-translator/internal/logger"
)

// ParagraphSeparator joins paragraphs within one logical page.
const ParagraphSeparator = "\n\n"

// ParseParagraphs splits raw flowing text into paragraphs. Blank-line
// boundaries are preferred; single-line boundaries are the fallback,
// and content with no boundaries at all becomes one paragraph.
func ParseParagraphs(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	paragraphs := splitNonBlank(content, "\n\n")
	if len(paragraphs) == 0 {
		paragraphs = splitNonBlank(content, "\n")
	}
	if len(paragraphs) == 0 {
		paragraphs = []string{strings.TrimSpace(content)}
	}
	return paragraphs
}

func splitNonBlank(content, sep string) []string {
	var out []string
	for _, p := range strings.Split(content, sep) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitIntoPages greedily groups paragraphs into logical pages of
// roughly targetPageSize characters. Sizes are measured in runes, not
// bytes, so CJK text fills a page at the same character count as
// Latin text. A paragraph larger than the threshold is never split
// here; oversized pages are handled later by the engine's bisection.
func SplitIntoPages(paragraphs []string, targetPageSize int) []string {
	if len(paragraphs) == 0 {
		logger.Warn("no paragraphs provided for page splitting")
		return []string{""}
	}

	var pages []string
	var current []string
	currentSize := 0

	for _, paragraph := range paragraphs {
		paraSize := utf8.RuneCountInString(paragraph)

		if currentSize+paraSize > targetPageSize && len(current) > 0 {
			pages = append(pages, strings.Join(current, ParagraphSeparator))
			current = []string{paragraph}
			currentSize = paraSize
		} else {
			current = append(current, paragraph)
			currentSize += paraSize + utf8.RuneCountInString(ParagraphSeparator)
		}
	}

	if len(current) > 0 {
		pages = append(pages, strings.Join(current, ParagraphSeparator))
	}

	if len(pages) == 0 {
		pages = []string{strings.Join(paragraphs, ParagraphSeparator)}
	}

	return pages
}
