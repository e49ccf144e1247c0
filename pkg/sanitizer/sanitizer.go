// Package sanitizer normalizes guest-supplied free text before it reaches
// storage. Strategies compose into pipelines so each field declares its own
// cleaning rules.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reValidPhone   = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	reDigitsOrPlus = regexp.MustCompile(`[^0-9+]`)
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeFreeText cleans fields like special requests: control characters
// removed, whitespace normalized.
func SanitizeFreeText(input string) string {
	p := Pipeline{stripControl, TrimAndNormalize}
	return p.Apply(input)
}

// SanitizePhone normalizes a phone number towards E.164. Returns "" when the
// input cannot be normalized into a valid number.
func SanitizePhone(phone string) string {
	phone = reDigitsOrPlus.ReplaceAllString(strings.TrimSpace(phone), "")
	if phone == "" {
		return ""
	}

	// Tolerate "00" international prefixes.
	if strings.HasPrefix(phone, "00") {
		phone = "+" + phone[2:]
	}

	if !reValidPhone.MatchString(phone) {
		return ""
	}
	return phone
}
