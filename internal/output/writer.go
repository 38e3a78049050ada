// Package output delivers translated page text to the console, to a
// text file, or onto a copy of the original PDF.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

// WriteConsole prints translated pages to stdout in order.
func WriteConsole(pages []string) {
	for _, page := range pages {
		fmt.Println(page)
	}
}

// WriteTXT writes translated pages to a UTF-8 text file, creating
// parent directories as needed.
func WriteTXT(pages []string, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.NewAppError(types.ErrOutput, "failed to create output directory", err)
	}

	content := strings.Join(pages, "\n")
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return types.NewAppError(types.ErrOutput, "failed to write output file", err)
	}

	logger.Info("translation written",
		logger.String("path", outputPath),
		logger.Int("pages", len(pages)),
		logger.Int("bytes", len(content)))
	return nil
}

// DefaultOutputPath derives the output file path from the input path:
// the input name with a "_translated" suffix and the given extension.
func DefaultOutputPath(inputPath, ext string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"_translated"+ext)
}
