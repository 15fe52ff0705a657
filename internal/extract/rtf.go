package extract

import (
	"strconv"
	"strings"
)

// RTFText strips RTF markup down to its plain text: control words are
// consumed (with \par and \tab mapped to whitespace and \'hh hex escapes
// decoded), group braces are dropped, and destination groups like
// {\fonttbl ...} are skipped entirely.
func RTFText(raw string) string {
	var builder strings.Builder
	skipDepth := 0
	depth := 0

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch ch {
		case '{':
			depth++
		case '}':
			if skipDepth > 0 && depth == skipDepth {
				skipDepth = 0
			}
			depth--
		case '\\':
			if i+1 >= len(raw) {
				break
			}
			next := raw[i+1]
			switch {
			case next == '\'' && i+3 < len(raw):
				if skipDepth == 0 {
					if value, err := strconv.ParseUint(raw[i+2:i+4], 16, 8); err == nil {
						builder.WriteByte(byte(value))
					}
				}
				i += 3
			case next == '\\' || next == '{' || next == '}':
				if skipDepth == 0 {
					builder.WriteByte(next)
				}
				i++
			case next == '*':
				// \* introduces a destination group; drop it wholesale.
				if skipDepth == 0 {
					skipDepth = depth
				}
				i++
			case isLetter(next):
				word, length := readControlWord(raw[i+1:])
				i += length
				if skipDepth != 0 {
					break
				}
				switch word {
				case "par", "line":
					builder.WriteByte('\n')
				case "tab":
					builder.WriteByte('\t')
				case "fonttbl", "colortbl", "stylesheet", "info", "pict":
					skipDepth = depth
				}
			default:
				i++
			}
		case '\r', '\n':
			// RTF line breaks are formatting, not content.
		default:
			if skipDepth == 0 {
				builder.WriteByte(ch)
			}
		}
	}
	return strings.TrimSpace(builder.String())
}

// readControlWord consumes the letters and optional numeric parameter of a
// control word plus its single trailing space delimiter, returning the word
// and the number of bytes consumed.
func readControlWord(s string) (string, int) {
	end := 0
	for end < len(s) && isLetter(s[end]) {
		end++
	}
	word := s[:end]

	consumed := end
	if consumed < len(s) && (s[consumed] == '-' || isDigit(s[consumed])) {
		consumed++
		for consumed < len(s) && isDigit(s[consumed]) {
			consumed++
		}
	}
	if consumed < len(s) && s[consumed] == ' ' {
		consumed++
	}
	return word, consumed
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
