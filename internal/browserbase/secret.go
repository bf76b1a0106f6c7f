package browserbase

import (
	"strings"
	"unicode"
)

// MaskSecret renders a secret for human display without revealing it.
// Short secrets (8 characters or fewer) become all asterisks so that not
// even their length leaks below four characters; longer ones keep their
// first and last four characters around a literal "...".
func MaskSecret(secret string) string {
	if secret == "" {
		return "not set"
	}
	if len(secret) <= 8 {
		n := len(secret)
		if n < 4 {
			n = 4
		}
		return strings.Repeat("*", n)
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// ShellEscape quotes a value for safe splicing into a POSIX shell command
// line. The value is wrapped in single quotes; each embedded single quote
// closes the quoting, inserts a double-quoted quote, and reopens it.
func ShellEscape(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

// DotenvEscape quotes a value for a .env file when it contains characters
// that would change how the line parses; otherwise the value is returned
// unchanged. Backslashes are escaped before quotes and line breaks so the
// escapes themselves never get re-escaped.
func DotenvEscape(value string) string {
	if !needsDotenvQuoting(value) {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	return `"` + escaped + `"`
}

func needsDotenvQuoting(value string) bool {
	return strings.IndexFunc(value, func(r rune) bool {
		switch r {
		case '\'', '"', '#', '=', '\\':
			return true
		}
		return unicode.IsSpace(r)
	}) >= 0
}
