package grading

import (
	"strings"
	"unicode"
)

// Repair makes a best effort to turn a model reply into one parseable JSON
// object. It strips code fences and surrounding prose, rewrites single
// quoted strings with double quotes, escapes raw control characters inside
// strings, drops trailing commas and closes whatever the reply left open.
// Text after the top level object is discarded.
func Repair(raw string) string {
	s := stripFences(strings.TrimSpace(raw))
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	s = s[start:]

	var b strings.Builder
	b.Grow(len(s) + 8)
	var stack []byte
	// quote is the byte that opened the current string, 0 outside strings.
	var quote byte
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
				if c == '\'' {
					// \' is not a JSON escape; the backslash is already written.
					b.WriteString(`u0027`)
				} else {
					b.WriteByte(c)
				}
			case c == '\\':
				escaped = true
				b.WriteByte(c)
			case c == quote && (quote == '"' || closesSingleQuote(s, i+1)):
				quote = 0
				b.WriteByte('"')
			case c == '"':
				b.WriteString(`\"`)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				b.WriteByte(' ')
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
			b.WriteByte('"')
		case '{', '[':
			stack = append(stack, c)
			b.WriteByte(c)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.WriteByte(closer(open))
			if len(stack) == 0 {
				return b.String()
			}
		case ',':
			if next := nextSignificant(s, i+1); next == '}' || next == ']' || next == 0 {
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	out := b.String()
	if quote != 0 {
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	}
	out = strings.TrimRightFunc(out, unicode.IsSpace)
	out = strings.TrimSuffix(out, ",")
	if strings.HasSuffix(out, ":") {
		out += "null"
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out += string(closer(stack[i]))
	}
	return out
}

// closesSingleQuote reports whether a quote before position i ends a single
// quoted string rather than being an apostrophe inside it.
func closesSingleQuote(s string, i int) bool {
	switch nextSignificant(s, i) {
	case ':', ',', '}', ']', 0:
		return true
	}
	return false
}

func closer(open byte) byte {
	if open == '[' {
		return ']'
	}
	return '}'
}

// nextSignificant returns the next non-space byte at or after i, or 0.
func nextSignificant(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\r', '\t':
			continue
		}
		return s[i]
	}
	return 0
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
