package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"cjk-translator/internal/types"
)

func TestCleanExtractedText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "cid artifacts removed",
			input: "Text with (cid:123) artifacts (cid:4)",
			want:  "Text with artifacts",
		},
		{
			name:  "null and bom stripped",
			input: "\ufeffText\x00 here",
			want:  "Text here",
		},
		{
			name:  "horizontal whitespace collapsed",
			input: "too   many\t\tspaces",
			want:  "too many spaces",
		},
		{
			name:  "blank lines normalized",
			input: "para one\n \n\n\npara two",
			want:  "para one\n\npara two",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanExtractedText(tt.input); got != tt.want {
				t.Errorf("CleanExtractedText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractPDF_Missing(t *testing.T) {
	_, err := ExtractPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("ExtractPDF() = nil error, want not-found failure")
	}
	if types.CodeOf(err) != types.ErrFileNotFound {
		t.Errorf("error code = %v, want %v", types.CodeOf(err), types.ErrFileNotFound)
	}
}

func TestExtractPDF_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := ExtractPDF(path)
	if err == nil {
		t.Fatal("ExtractPDF() = nil error, want validation failure")
	}
	if types.CodeOf(err) != types.ErrExtract {
		t.Errorf("error code = %v, want %v", types.CodeOf(err), types.ErrExtract)
	}
}
