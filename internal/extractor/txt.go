package extractor

import (
	"os"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

// ExtractTXT reads a plain text file and splits it into logical pages
// of roughly targetPageSize characters.
func ExtractTXT(path string, targetPageSize int) ([]Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "document not found", path, err)
		}
		return nil, types.NewAppError(types.ErrExtract, "cannot read text file", err)
	}

	content, err := DecodeToUTF8(data)
	if err != nil {
		return nil, err
	}

	paragraphs := ParseParagraphs(content)
	if len(paragraphs) == 0 {
		logger.Warn("no text content found in text file", logger.String("path", path))
		return chunksFromPages(nil), nil
	}

	pages := SplitIntoPages(paragraphs, targetPageSize)
	logger.Info("text file split into logical pages",
		logger.String("path", path),
		logger.Int("pages", len(pages)))
	return chunksFromPages(pages), nil
}
