package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ClassificationCodeLength is the length of a well-formed classification code.
const ClassificationCodeLength = 7

// ClassificationCodes holds a program's classification codes as harvested
// and split into plausible and implausible codes.
type ClassificationCodes struct {
	// Raw is the harvested value normalised into a list.
	Raw []string

	// Valid contains 7-character codes, deduplicated, in first-seen order.
	Valid []string

	// Invalid contains every other non-empty token, kept for auditability.
	Invalid []string
}

// IsEmpty returns true if nothing was harvested.
func (c ClassificationCodes) IsEmpty() bool {
	return len(c.Raw) == 0
}

// ParseCodeList normalises a "sometimes string, sometimes list" source value
// into a flat list of strings. Numbers are rendered without a fractional part.
func ParseCodeList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []string:
		var out []string
		for _, s := range val {
			out = append(out, ParseCodeList(s)...)
		}
		return out
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, ParseCodeList(item)...)
		}
		return out
	case float64:
		return []string{strconv.FormatFloat(val, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(val)}
	case int64:
		return []string{strconv.FormatInt(val, 10)}
	case json.Number:
		return []string{val.String()}
	default:
		return nil
	}
}

// ClassifyCodes splits raw codes on separators and files each token as
// valid or invalid.
func ClassifyCodes(raw []string) ClassificationCodes {
	codes := ClassificationCodes{Raw: raw}
	seenValid := make(map[string]bool)
	seenInvalid := make(map[string]bool)

	for _, item := range raw {
		tokens := strings.FieldsFunc(item, func(r rune) bool {
			return r == ',' || r == ';' || r == '/' || unicode.IsSpace(r)
		})
		for _, tok := range tokens {
			// Spreadsheet exports render numeric codes as floats.
			tok = strings.TrimSuffix(tok, ".0")
			if tok == "" {
				continue
			}
			if utf8.RuneCountInString(tok) == ClassificationCodeLength {
				if !seenValid[tok] {
					seenValid[tok] = true
					codes.Valid = append(codes.Valid, tok)
				}
				continue
			}
			if !seenInvalid[tok] {
				seenInvalid[tok] = true
				codes.Invalid = append(codes.Invalid, tok)
			}
		}
	}

	return codes
}
