package rank

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis marks a truncated body.
const Ellipsis = "..."

// Truncate trims body and shortens it to at most limit characters, appending
// Ellipsis when anything was cut. A limit of zero or less disables truncation.
func Truncate(body string, limit int) string {
	content := strings.TrimSpace(body)
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return content
	}

	cut := 0
	for i := range content {
		if limit == 0 {
			cut = i
			break
		}
		limit--
	}
	return strings.TrimSpace(content[:cut]) + Ellipsis
}
