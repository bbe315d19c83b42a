package ingestion_engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const fence = "```"

// SanitizeResponse strips a Markdown code fence the model may have wrapped its
// answer in. With a fence present, the first fenced segment is returned without
// its optional language tag; otherwise raw is returned trimmed.
func SanitizeResponse(raw string) string {
	s := strings.TrimSpace(raw)
	open := strings.Index(s, fence)
	if open < 0 {
		return s
	}

	body := s[open+len(fence):]
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(stripLanguageTag(body))
}

// stripLanguageTag removes an info string such as "json" directly after the
// opening fence. The tag may end the line or run straight into the payload,
// as in "json {" or "json[".
func stripLanguageTag(body string) string {
	s := strings.TrimLeft(body, " \t")
	end := strings.IndexFunc(s, func(r rune) bool { return !isLanguageTagRune(r) })
	if end <= 0 {
		return body
	}
	next, _ := utf8.DecodeRuneInString(s[end:])
	if next == '{' || next == '[' || unicode.IsSpace(next) {
		return s[end:]
	}
	return body
}

func isLanguageTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+' || r == '.'
}
