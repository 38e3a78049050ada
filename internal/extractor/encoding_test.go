package extractor

import (
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

func TestDetectEncoding(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("中文文本"))
	if err != nil {
		t.Fatalf("GBK encode error = %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "plain ascii", data: []byte("hello"), want: "UTF-8"},
		{name: "utf8 cjk", data: []byte("中文文本"), want: "UTF-8"},
		{name: "utf8 bom", data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...), want: "UTF-8-BOM"},
		{name: "utf16 le bom", data: []byte{0xFF, 0xFE, 'h', 0x00}, want: "UTF-16LE"},
		{name: "utf16 be bom", data: []byte{0xFE, 0xFF, 0x00, 'h'}, want: "UTF-16BE"},
		{name: "gbk", data: gbk, want: "GBK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEncoding(tt.data); got != tt.want {
				t.Errorf("DetectEncoding() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeToUTF8_RoundTrips(t *testing.T) {
	const text = "中文文档翻译测试"

	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("GBK encode error = %v", err)
	}

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("UTF-16LE encode error = %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "utf8", data: []byte(text)},
		{name: "utf8 bom", data: append([]byte{0xEF, 0xBB, 0xBF}, []byte(text)...)},
		{name: "gbk", data: gbk},
		{name: "utf16 le", data: utf16le},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeToUTF8(tt.data)
			if err != nil {
				t.Fatalf("DecodeToUTF8() error = %v", err)
			}
			if got != text {
				t.Errorf("DecodeToUTF8() = %q, want %q", got, text)
			}
		})
	}
}
