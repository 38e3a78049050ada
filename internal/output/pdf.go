package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

const (
	overlayFontName = "Helvetica"
	overlayFontSize = 9
	// overlayLineWidth is the max runes per overlaid line; CJK glyphs
	// are wide so the wrap point is conservative
	overlayLineWidth = 60
	overlayMaxLines  = 12
)

// PDFOverlay stamps translated text onto a copy of the original PDF,
// one text block per source page.
type PDFOverlay struct {
	conf *model.Configuration
}

// NewPDFOverlay creates an overlay writer with relaxed validation, so
// slightly malformed but readable PDFs are still accepted.
func NewPDFOverlay() *PDFOverlay {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFOverlay{conf: conf}
}

// WritePDF copies the original PDF to outputPath and stamps each page
// with the leading portion of its translation. pages[i] is stamped
// onto PDF page i+1; extra translated pages beyond the PDF's page
// count are skipped with a warning.
func (o *PDFOverlay) WritePDF(originalPath string, pages []string, outputPath string) error {
	if err := copyFile(originalPath, outputPath); err != nil {
		return types.NewAppError(types.ErrOutput, "failed to copy original PDF", err)
	}

	ctx, err := api.ReadContextFile(outputPath)
	if err != nil {
		return types.NewAppError(types.ErrOutput, "failed to read PDF for overlay", err)
	}
	pageCount := ctx.PageCount

	for i, text := range pages {
		pageNum := i + 1
		if pageNum > pageCount {
			logger.Warn("more translated pages than PDF pages, skipping remainder",
				logger.Int("pdfPages", pageCount),
				logger.Int("translatedPages", len(pages)))
			break
		}

		wm := o.textWatermark(excerptForOverlay(text))
		selectedPages := []string{fmt.Sprintf("%d", pageNum)}
		if err := api.AddWatermarksFile(outputPath, "", selectedPages, wm, o.conf); err != nil {
			// One bad page must not discard the rest of the overlay
			logger.Error("failed to stamp page, continuing", err, logger.Int("page", pageNum))
		}
	}

	if err := api.ValidateFile(outputPath, o.conf); err != nil {
		return types.NewAppError(types.ErrOutput, "generated PDF failed validation", err)
	}

	logger.Info("PDF overlay written",
		logger.String("path", outputPath),
		logger.Int("pages", pageCount))
	return nil
}

// textWatermark builds a top-left anchored text stamp.
func (o *PDFOverlay) textWatermark(text string) *model.Watermark {
	return &model.Watermark{
		Mode:       model.WMText,
		TextString: text,
		FontName:   overlayFontName,
		FontSize:   overlayFontSize,
		Color:      color.Black,
		Opacity:    1.0,
		OnTop:      true,
		Pos:        pdftypes.TopLeft,
		Dx:         20,
		Dy:         -20,
	}
}

// excerptForOverlay wraps and truncates translated text to fit a
// single stamp. The full translation belongs in the text output; the
// stamp is a per-page preview.
func excerptForOverlay(text string) string {
	var lines []string
	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		runes := []rune(raw)
		for len(runes) > overlayLineWidth {
			lines = append(lines, string(runes[:overlayLineWidth]))
			runes = runes[overlayLineWidth:]
		}
		lines = append(lines, string(runes))
		if len(lines) >= overlayMaxLines {
			break
		}
	}
	if len(lines) > overlayMaxLines {
		lines = lines[:overlayMaxLines]
	}
	return strings.Join(lines, "\n")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
