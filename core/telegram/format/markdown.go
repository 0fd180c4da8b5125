package format

import "strings"

// EscapeCodeSpan escapes characters that terminate a MarkdownV2 inline code span.
// Inside backticks only '`' and '\' are special.
func EscapeCodeSpan(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 4)
	for _, r := range text {
		if r == '`' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CodeSpan wraps text in a MarkdownV2 inline code span, escaping its body.
func CodeSpan(text string) string {
	return "`" + EscapeCodeSpan(text) + "`"
}
