package types

import "strings"

// ParseDirection parses a two-letter direction code such as "CE" or
// "JK" into source and target languages. Codes are case-insensitive.
func ParseDirection(code string) (Language, Language, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", "", NewAppErrorWithDetails(ErrInvalidInput,
			"language code must be exactly 2 characters", code, nil)
	}

	source, ok := LanguageMap[code[0]]
	if !ok {
		return "", "", NewAppErrorWithDetails(ErrInvalidInput,
			"invalid source language code, use C, J, K, or E", string(code[0]), nil)
	}
	target, ok := LanguageMap[code[1]]
	if !ok {
		return "", "", NewAppErrorWithDetails(ErrInvalidInput,
			"invalid target language code, use C, J, K, or E", string(code[1]), nil)
	}
	if source == target {
		return "", "", NewAppError(ErrInvalidInput,
			"source and target languages cannot be the same", nil)
	}

	return source, target, nil
}
