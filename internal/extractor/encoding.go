package extractor

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

// DetectEncoding inspects raw file bytes and returns one of "UTF-8",
// "UTF-8-BOM", "UTF-16LE", "UTF-16BE", or "GBK". Non-UTF-8 content
// without a BOM is assumed to be GBK, the common case for CJK text
// files produced on Windows.
func DetectEncoding(data []byte) string {
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}) {
		return "UTF-8-BOM"
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xFE}) {
		return "UTF-16LE"
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFE, 0xFF}) {
		return "UTF-16BE"
	}
	if utf8.Valid(data) {
		return "UTF-8"
	}
	return "GBK"
}

// DecodeToUTF8 converts raw file bytes to a UTF-8 string based on the
// detected encoding.
func DecodeToUTF8(data []byte) (string, error) {
	enc := DetectEncoding(data)
	logger.Debug("detected text encoding", logger.String("encoding", enc))

	switch enc {
	case "UTF-8":
		return string(data), nil
	case "UTF-8-BOM":
		return string(data[3:]), nil
	case "UTF-16LE":
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", types.NewAppError(types.ErrExtract, "failed to decode UTF-16LE content", err)
		}
		return string(decoded), nil
	case "UTF-16BE":
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", types.NewAppError(types.ErrExtract, "failed to decode UTF-16BE content", err)
		}
		return string(decoded), nil
	default:
		decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return "", types.NewAppError(types.ErrExtract, "failed to decode GBK content", err)
		}
		return string(decoded), nil
	}
}
