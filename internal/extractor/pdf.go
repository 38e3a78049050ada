package extractor

import (
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

var (
	cidPattern       = regexp.MustCompile(`\(cid:\d+\)`)
	hwsPattern       = regexp.MustCompile(`[ \t]+`)
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
	multiLinePattern = regexp.MustCompile(`\n{3,}`)
)

// ExtractPDF returns one chunk per native PDF page, in page order.
// Pages whose text cannot be extracted become empty chunks so that
// page numbering stays aligned with the source document.
func ExtractPDF(path string) ([]Chunk, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "document not found", path, err)
		}
		return nil, types.NewAppError(types.ErrExtract, "cannot access document", err)
	}

	// Validate the PDF structure up front; ledongthuc/pdf can panic on
	// some malformed files that pdfcpu rejects cleanly.
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrExtract, "invalid PDF file", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrExtract, "cannot open PDF file", path, err)
	}
	defer f.Close()

	totalPages := r.NumPage()
	pages := make([]string, 0, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("failed to extract page text, emitting empty page",
				logger.Int("page", pageNum), logger.Err(err))
			pages = append(pages, "")
			continue
		}

		pages = append(pages, CleanExtractedText(content))
	}

	logger.Info("PDF extracted",
		logger.String("path", path),
		logger.Int("pages", len(pages)))
	return chunksFromPages(pages), nil
}

// CleanExtractedText strips glyph-extraction artifacts: null and BOM
// characters, unmapped-character references, and runs of horizontal
// whitespace, while preserving paragraph structure.
func CleanExtractedText(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(text, "\x00", "")
	cleaned = strings.ReplaceAll(cleaned, "\ufeff", "")
	cleaned = cidPattern.ReplaceAllString(cleaned, "")
	cleaned = hwsPattern.ReplaceAllString(cleaned, " ")
	cleaned = blankLinePattern.ReplaceAllString(cleaned, "\n\n")
	cleaned = multiLinePattern.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}
