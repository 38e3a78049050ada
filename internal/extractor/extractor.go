// Package extractor turns source documents (PDF, DOCX, plain text)
// into an ordered sequence of logical pages for translation. Paginated
// formats yield one chunk per native page; flowing-text formats are
// grouped into content-length-bounded logical pages.
package extractor

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cjk-translator/internal/types"
)

// Chunk is a unit of source text submitted for one translation call.
type Chunk struct {
	// Text is the raw extracted text of the logical page
	Text string
	// Index is the 0-based page number within the document
	Index int
}

// PageRange is a 1-based inclusive page filter.
type PageRange struct {
	Start int
	End   int
}

var pageRangePattern = regexp.MustCompile(`^\d+(-\d+)?$`)

// ParsePageRange parses a page filter such as "3" or "2-7". The zero
// string means no filter and returns nil.
func ParsePageRange(s string) (*PageRange, error) {
	if s == "" {
		return nil, nil
	}
	if !pageRangePattern.MatchString(s) {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"invalid page range, use a page number or start-end", s, nil)
	}

	parts := strings.SplitN(s, "-", 2)
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid page number", s, err)
	}
	end := start
	if len(parts) == 2 {
		end, err = strconv.Atoi(parts[1])
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid page number", s, err)
		}
	}

	if start < 1 || end < start {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"page range start must be >= 1 and end >= start", s, nil)
	}
	return &PageRange{Start: start, End: end}, nil
}

// Apply filters chunks to the range, keeping original indices.
func (r *PageRange) Apply(chunks []Chunk) []Chunk {
	if r == nil {
		return chunks
	}

	var out []Chunk
	for _, c := range chunks {
		page := c.Index + 1
		if page >= r.Start && page <= r.End {
			out = append(out, c)
		}
	}
	return out
}

// Extract reads the document at path and returns its logical pages in
// source order. The format is chosen by file extension. The returned
// sequence is never empty; empty input yields a single empty chunk.
func Extract(path string, targetPageSize int) ([]Chunk, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExtractPDF(path)
	case ".docx":
		return ExtractDOCX(path, targetPageSize)
	case ".txt", ".text", ".md":
		return ExtractTXT(path, targetPageSize)
	default:
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"unsupported document format", filepath.Ext(path), nil)
	}
}

// chunksFromPages wraps page texts into indexed chunks, guaranteeing a
// non-empty result.
func chunksFromPages(pages []string) []Chunk {
	if len(pages) == 0 {
		pages = []string{""}
	}
	chunks := make([]Chunk, len(pages))
	for i, p := range pages {
		chunks[i] = Chunk{Text: p, Index: i}
	}
	return chunks
}
