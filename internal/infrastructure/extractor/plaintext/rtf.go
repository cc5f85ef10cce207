package plaintext

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Destinations whose content is metadata rather than document text.
var skippedDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "header": true, "footer": true, "listtable": true,
	"listoverridetable": true, "rsidtbl": true, "generator": true,
	"xmlnstbl": true, "themedata": true, "datastore": true, "latentstyles": true,
}

func IsRTF(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), string(rtfMagic))
}

// StripRTF keeps the visible text of an RTF document. Paragraph and line
// controls become newlines, \tab a space, \'hh bytes are decoded as
// Windows-1252 and \uN as the Unicode code point. Ignorable destinations
// ({\* ...}) and metadata tables are dropped.
func StripRTF(src string) string {
	var (
		out       strings.Builder
		skipDepth []bool
		skipping  bool
		ucSkip    = 1
		pending   int
	)

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			skipDepth = append(skipDepth, skipping)
			continue
		case '}':
			if n := len(skipDepth); n > 0 {
				skipping = skipDepth[n-1]
				skipDepth = skipDepth[:n-1]
			}
			continue
		case '\r', '\n':
			continue
		case '\\':
		default:
			if pending > 0 {
				pending--
				continue
			}
			if !skipping {
				out.WriteByte(c)
			}
			continue
		}

		// control sequence
		if i+1 >= len(src) {
			break
		}
		next := src[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			if !skipping {
				out.WriteByte(next)
			}
			i++
			continue
		case next == '*':
			skipping = true
			i++
			continue
		case next == '\'':
			if i+3 < len(src) {
				if v, err := strconv.ParseUint(src[i+2:i+4], 16, 8); err == nil && !skipping {
					if pending > 0 {
						pending--
					} else {
						out.WriteRune(charmap.Windows1252.DecodeByte(byte(v)))
					}
				}
			}
			i += 3
			continue
		case !isLetter(next):
			// control symbols such as \~ or \-
			if next == '~' && !skipping {
				out.WriteByte(' ')
			}
			i++
			continue
		}

		j := i + 1
		for j < len(src) && isLetter(src[j]) {
			j++
		}
		word := src[i+1 : j]
		k := j
		if k < len(src) && (src[k] == '-' || isDigit(src[k])) {
			k++
			for k < len(src) && isDigit(src[k]) {
				k++
			}
		}
		param := src[j:k]
		if k < len(src) && src[k] == ' ' {
			k++
		}
		i = k - 1

		if skippedDestinations[word] {
			skipping = true
			continue
		}
		if skipping {
			continue
		}
		switch word {
		case "par", "line", "row", "sect", "page":
			out.WriteByte('\n')
		case "tab", "cell":
			out.WriteByte(' ')
		case "bullet":
			out.WriteString("- ")
		case "emdash", "endash":
			out.WriteByte('-')
		case "uc":
			if n, err := strconv.Atoi(param); err == nil && n >= 0 {
				ucSkip = n
			}
		case "u":
			if n, err := strconv.Atoi(param); err == nil {
				if n < 0 {
					n += 65536
				}
				out.WriteRune(rune(n))
				pending = ucSkip
			}
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
