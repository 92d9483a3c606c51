// ABOUTME: Read-only SQL guard scanning the whole statement
// ABOUTME: Strips literals and comments, then rejects any write keyword
package core

import (
	"fmt"
	"strings"
)

// disallowedKeywords are statement keywords that mutate state or escape
// read-only scope. The scan covers every token, not just the first: a
// multi-clause statement can open with a benign WITH or SELECT and still
// smuggle a write later.
var disallowedKeywords = map[string]bool{
	"insert":   true,
	"update":   true,
	"delete":   true,
	"drop":     true,
	"alter":    true,
	"create":   true,
	"truncate": true,
	"merge":    true,
	"replace":  true,
	"grant":    true,
	"revoke":   true,
	"call":     true,
	"exec":     true,
	"execute":  true,
	"attach":   true,
	"detach":   true,
	"pragma":   true,
	"vacuum":   true,
}

// EnsureReadOnly rejects SQL that is not a plain read. The statement must
// start with SELECT, WITH, or EXPLAIN, and no token anywhere in it may be
// a write keyword. String literals, quoted identifiers, and comments are
// stripped first so keywords inside them do not false-positive.
func EnsureReadOnly(sqlText string) error {
	stripped := stripLiterals(sqlText)
	tokens := tokenize(stripped)
	if len(tokens) == 0 {
		return fmt.Errorf("empty SQL statement")
	}

	switch tokens[0] {
	case "select", "with", "explain":
	default:
		return fmt.Errorf("statement must start with SELECT, WITH, or EXPLAIN; got %q", tokens[0])
	}

	for _, tok := range tokens {
		if disallowedKeywords[tok] {
			return fmt.Errorf("disallowed keyword %q in statement", strings.ToUpper(tok))
		}
	}
	return nil
}

// stripLiterals removes single-quoted strings, double-quoted and
// backquoted identifiers, line comments, and block comments
func stripLiterals(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		switch {
		case s[i] == '\'':
			i = skipQuoted(s, i, '\'')
			b.WriteByte(' ')
		case s[i] == '"':
			i = skipQuoted(s, i, '"')
			b.WriteByte(' ')
		case s[i] == '`':
			i = skipQuoted(s, i, '`')
			b.WriteByte(' ')
		case strings.HasPrefix(s[i:], "--"):
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += 2 + end + 2
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// skipQuoted advances past a quoted region, honoring doubled-quote escapes
func skipQuoted(s string, start int, quote byte) int {
	i := start + 1
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// tokenize lowercases and splits on anything that is not a word character
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		isWord := r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		return !isWord
	})
}
