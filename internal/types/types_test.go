package types

import (
	"errors"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantSource Language
		wantTarget Language
		wantErr    bool
	}{
		{name: "chinese to english", code: "CE", wantSource: LanguageChinese, wantTarget: LanguageEnglish},
		{name: "japanese to korean", code: "JK", wantSource: LanguageJapanese, wantTarget: LanguageKorean},
		{name: "lowercase accepted", code: "ec", wantSource: LanguageEnglish, wantTarget: LanguageChinese},
		{name: "surrounding whitespace", code: " KE ", wantSource: LanguageKorean, wantTarget: LanguageEnglish},
		{name: "same language", code: "CC", wantErr: true},
		{name: "unknown letter", code: "CX", wantErr: true},
		{name: "too short", code: "C", wantErr: true},
		{name: "too long", code: "CEJ", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, target, err := ParseDirection(tt.code)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDirection(%q) = nil error, want failure", tt.code)
				}
				if CodeOf(err) != ErrInvalidInput {
					t.Errorf("error code = %v, want %v", CodeOf(err), ErrInvalidInput)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirection(%q) error = %v", tt.code, err)
			}
			if source != tt.wantSource || target != tt.wantTarget {
				t.Errorf("ParseDirection(%q) = %v, %v, want %v, %v",
					tt.code, source, target, tt.wantSource, tt.wantTarget)
			}
		})
	}
}

func TestAppError(t *testing.T) {
	cause := errors.New("underlying")
	err := NewAppErrorWithDetails(ErrAPICall, "request failed", "status 502", cause)

	if got := err.Error(); got != "request failed: status 502" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is does not find the cause")
	}

	plain := NewAppError(ErrConfig, "bad config", nil)
	if got := plain.Error(); got != "bad config" {
		t.Errorf("Error() without details = %q", got)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewAppError(ErrContentFilter, "filtered", nil)); got != ErrContentFilter {
		t.Errorf("CodeOf(AppError) = %v, want %v", got, ErrContentFilter)
	}
	if got := CodeOf(errors.New("plain")); got != ErrInternal {
		t.Errorf("CodeOf(plain error) = %v, want %v", got, ErrInternal)
	}
}
