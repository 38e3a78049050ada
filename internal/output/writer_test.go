package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	pages := []string{
		"\n\n-- Page 1 -- \n\nfirst page",
		"\n\n-- Page 2 -- \n\nsecond page",
	}

	if err := WriteTXT(pages, path); err != nil {
		t.Fatalf("WriteTXT() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "-- Page 1 --") || !strings.Contains(content, "-- Page 2 --") {
		t.Errorf("output missing page banners: %q", content)
	}
	if strings.Index(content, "first page") > strings.Index(content, "second page") {
		t.Error("pages written out of order")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		ext   string
		want  string
	}{
		{"/docs/paper.pdf", ".txt", "/docs/paper_translated.txt"},
		{"/docs/paper.pdf", ".pdf", "/docs/paper_translated.pdf"},
		{"notes.txt", ".txt", "notes_translated.txt"},
		{"/a/b/report.docx", ".txt", "/a/b/report_translated.txt"},
	}

	for _, tt := range tests {
		if got := DefaultOutputPath(tt.input, tt.ext); got != tt.want {
			t.Errorf("DefaultOutputPath(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
		}
	}
}

func TestExcerptForOverlay(t *testing.T) {
	t.Run("wraps long lines", func(t *testing.T) {
		text := strings.Repeat("x", 200)
		got := excerptForOverlay(text)
		for i, line := range strings.Split(got, "\n") {
			if len([]rune(line)) > overlayLineWidth {
				t.Errorf("line %d has %d runes, want <= %d", i, len([]rune(line)), overlayLineWidth)
			}
		}
	})

	t.Run("truncates to max lines", func(t *testing.T) {
		text := strings.Repeat("line\n", 50)
		got := excerptForOverlay(text)
		if lines := strings.Count(got, "\n") + 1; lines > overlayMaxLines {
			t.Errorf("excerpt has %d lines, want <= %d", lines, overlayMaxLines)
		}
	})

	t.Run("drops blank lines", func(t *testing.T) {
		got := excerptForOverlay("a\n\n\nb")
		if got != "a\nb" {
			t.Errorf("excerptForOverlay = %q, want %q", got, "a\nb")
		}
	})
}
