package extractor

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

// DOCX is a zip container; the document body lives in word/document.xml
// as w:p paragraph elements holding w:t text runs.

type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

// ExtractDOCX reads a Word document and splits its paragraphs into
// logical pages of roughly targetPageSize characters.
func ExtractDOCX(path string, targetPageSize int) ([]Chunk, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "document not found", path, err)
		}
		return nil, types.NewAppError(types.ErrExtract, "cannot access document", err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrExtract, "not a valid DOCX container", path, err)
	}
	defer reader.Close()

	var documentXML []byte
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return nil, types.NewAppError(types.ErrExtract, "cannot open document body", err)
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, types.NewAppError(types.ErrExtract, "cannot read document body", err)
			}
			break
		}
	}
	if documentXML == nil {
		return nil, types.NewAppError(types.ErrExtract, "DOCX container has no word/document.xml", nil)
	}

	var doc docxDocument
	if err := xml.Unmarshal(documentXML, &doc); err != nil {
		return nil, types.NewAppError(types.ErrExtract, "malformed DOCX document body", err)
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	if len(paragraphs) == 0 {
		logger.Warn("no text content found in DOCX file", logger.String("path", path))
		return chunksFromPages(nil), nil
	}

	pages := SplitIntoPages(paragraphs, targetPageSize)
	logger.Info("DOCX split into logical pages",
		logger.String("path", path),
		logger.Int("paragraphs", len(paragraphs)),
		logger.Int("pages", len(pages)))
	return chunksFromPages(pages), nil
}
