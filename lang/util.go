package lang

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func slogOp(symbol string) slog.Attr {
	return slog.String("operator", symbol)
}

// quote renders s as a string literal using only the escapes the scanner
// accepts.
func quote(s string) string {
	var buf strings.Builder

	buf.Grow(len(s) + 2)
	buf.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		case 0:
			buf.WriteString(`\0`)
		default:
			if r < 0x10000 && !unicode.IsPrint(r) {
				hex := strconv.FormatInt(int64(r), 16)
				buf.WriteString(`\u` + strings.Repeat("0", 4-len(hex)) + hex)
			} else {
				buf.WriteRune(r)
			}
		}
	}

	buf.WriteByte('"')

	return buf.String()
}
