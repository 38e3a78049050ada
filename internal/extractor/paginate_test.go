package extractor

import (
	"strings"
	"testing"
	"testing/quick"
)

func TestParseParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "blank line boundaries",
			content: "para one\n\npara two\n\npara three",
			want:    []string{"para one", "para two", "para three"},
		},
		{
			name:    "single line fallback",
			content: "line one\nline two",
			want:    []string{"line one\nline two"},
		},
		{
			name:    "no boundaries",
			content: "just one block of text",
			want:    []string{"just one block of text"},
		},
		{
			name:    "whitespace only",
			content: "   \n\n  \t ",
			want:    nil,
		},
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParagraphs(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseParagraphs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitIntoPages_GroupsByTargetSize(t *testing.T) {
	paragraphs := []string{
		strings.Repeat("a", 800),
		strings.Repeat("b", 800),
		strings.Repeat("c", 800),
		strings.Repeat("d", 800),
	}

	pages := SplitIntoPages(paragraphs, 2000)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if !strings.Contains(pages[0], "a") || !strings.Contains(pages[0], "b") {
		t.Errorf("page 1 missing expected paragraphs")
	}
	if !strings.Contains(pages[1], "c") || !strings.Contains(pages[1], "d") {
		t.Errorf("page 2 missing expected paragraphs")
	}
}

func TestSplitIntoPages_CJKMeasuredInRunes(t *testing.T) {
	// Two 500-character CJK paragraphs total 1002 characters with the
	// separator, well under a 2000-character target, and must share one
	// page even though each character is 3 bytes in UTF-8.
	paragraphs := []string{
		strings.Repeat("漢", 500),
		strings.Repeat("字", 500),
	}

	pages := SplitIntoPages(paragraphs, 2000)
	if len(pages) != 1 {
		t.Fatalf("pages = %d for 1002 characters of CJK against a 2000-character target, want 1", len(pages))
	}

	// Four such paragraphs overflow the target and must split.
	pages = SplitIntoPages(append(paragraphs, paragraphs...), 2000)
	if len(pages) != 2 {
		t.Errorf("pages = %d for four 500-character CJK paragraphs against a 2000-character target, want 2", len(pages))
	}
}

func TestSplitIntoPages_OversizedParagraphKeptWhole(t *testing.T) {
	big := strings.Repeat("x", 5000)
	pages := SplitIntoPages([]string{"small", big, "tail"}, 2000)

	found := false
	for _, p := range pages {
		if strings.Contains(p, big) {
			found = true
		}
	}
	if !found {
		t.Error("oversized paragraph was split during pagination")
	}
}

func TestSplitIntoPages_Empty(t *testing.T) {
	pages := SplitIntoPages(nil, 2000)
	if len(pages) != 1 || pages[0] != "" {
		t.Errorf("SplitIntoPages(nil) = %v, want single empty page", pages)
	}
}

// Pagination must never lose or reorder paragraph content.
func TestSplitIntoPages_TotalCoverageProperty(t *testing.T) {
	property := func(words []string, targetPageSize uint16) bool {
		var paragraphs []string
		for _, w := range words {
			if trimmed := strings.TrimSpace(w); trimmed != "" && !strings.Contains(trimmed, "\n") {
				paragraphs = append(paragraphs, trimmed)
			}
		}
		if len(paragraphs) == 0 {
			return true
		}

		target := int(targetPageSize%4000) + 1
		pages := SplitIntoPages(paragraphs, target)

		var recovered []string
		for _, page := range pages {
			recovered = append(recovered, strings.Split(page, ParagraphSeparator)...)
		}

		if len(recovered) != len(paragraphs) {
			return false
		}
		for i := range recovered {
			if recovered[i] != paragraphs[i] {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 200}); err != nil {
		t.Errorf("total coverage property failed: %v", err)
	}
}
