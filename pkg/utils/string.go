package utils

import "strings"

// CompressWhitespace collapses runs of spaces and tabs on each line while
// keeping line breaks. CRLF and CR line endings become LF.
func CompressWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Words splits text into whitespace separated fields with surrounding
// punctuation trimmed. Fields that are only punctuation are dropped.
func Words(s string) []string {
	fields := strings.Fields(s)
	words := make([]string, 0, len(fields))

	for _, f := range fields {
		f = strings.TrimFunc(f, isPunct)
		if f != "" {
			words = append(words, f)
		}
	}

	return words
}

func isPunct(r rune) bool {
	return strings.ContainsRune(".,!?;:'\"()[]{}*_~`|-", r)
}
