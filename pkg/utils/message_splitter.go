package utils

import (
	"strings"
	"unicode/utf8"
)

// MessageDelimiter marks a break between display messages inside one stored reply.
const MessageDelimiter = "\n---\n"

// SplitMessages breaks a reply on MessageDelimiter into trimmed, non-empty
// parts. A reply without the delimiter comes back as a single part.
func SplitMessages(text string) []string {
	if !strings.Contains(text, MessageDelimiter) {
		return []string{text}
	}

	var parts []string
	for _, part := range strings.Split(text, MessageDelimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return parts
}

// TruncateRunes cuts s to at most max runes and appends "..." when anything was cut.
func TruncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
