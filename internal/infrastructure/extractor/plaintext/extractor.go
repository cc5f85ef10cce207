// Package plaintext decodes text-like uploads (plain text, Markdown, RTF)
// with a best-guess encoding ladder.
package plaintext

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	StrategyText = "text-decode"
	StrategyRTF  = "rtf-strip"

	EncodingUTF8        = "utf-8"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingLatin1      = "iso-8859-1"
	EncodingWindows1252 = "windows-1252"
	EncodingReplacement = "utf-8-replaced"

	// Share of NUL bytes on one side of the code unit pairs that counts as
	// BOM-less UTF-16.
	utf16NulRatio = 0.3
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	rtfMagic   = []byte(`{\rtf`)
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Read(_ context.Context, data []byte, meta *domain.ExtractionMeta) string {
	meta.DetectedKind = domain.KindText

	text, enc := Decode(data)
	meta.Encoding = enc

	strategy := StrategyText
	if IsRTF(text) {
		strategy = StrategyRTF
		text = StripRTF(text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		meta.Record(strategy, domain.AttemptEmpty, nil)
		meta.Error = "document contains no text"
		return ""
	}
	meta.Record(strategy, domain.AttemptOK, nil)
	return text
}

// Decode tries UTF-8 (BOM or valid sequence), UTF-16 (BOM or NUL pattern),
// Latin-1 when no C1 bytes are present, Windows-1252 when every byte is
// defined there, and finally UTF-8 with invalid bytes replaced.
func Decode(data []byte) (string, string) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return strings.ToValidUTF8(string(data[len(bomUTF8):]), "�"), EncodingUTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		if s, ok := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data); ok {
			return s, EncodingUTF16LE
		}
	case bytes.HasPrefix(data, bomUTF16BE):
		if s, ok := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data); ok {
			return s, EncodingUTF16BE
		}
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8
	}
	if order, ok := utf16Evidence(data); ok {
		name := EncodingUTF16LE
		if order == unicode.BigEndian {
			name = EncodingUTF16BE
		}
		if s, ok := decodeWith(unicode.UTF16(order, unicode.IgnoreBOM), data); ok {
			return s, name
		}
	}
	if !hasC1Bytes(data) {
		if s, ok := decodeWith(charmap.ISO8859_1, data); ok {
			return s, EncodingLatin1
		}
	}
	if !hasUndefinedWindows1252(data) {
		if s, ok := decodeWith(charmap.Windows1252, data); ok {
			return s, EncodingWindows1252
		}
	}
	return strings.ToValidUTF8(string(data), "�"), EncodingReplacement
}

func decodeWith(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// utf16Evidence looks for NUL bytes concentrated on one side of the code
// unit pairs, which is how ASCII-heavy UTF-16 looks without a BOM.
func utf16Evidence(data []byte) (unicode.Endianness, bool) {
	if len(data) < 4 || len(data)%2 != 0 {
		return unicode.LittleEndian, false
	}
	var evenNul, oddNul int
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 {
			evenNul++
		}
		if data[i+1] == 0 {
			oddNul++
		}
	}
	pairs := float64(len(data) / 2)
	switch {
	case float64(oddNul)/pairs >= utf16NulRatio && evenNul == 0:
		return unicode.LittleEndian, true
	case float64(evenNul)/pairs >= utf16NulRatio && oddNul == 0:
		return unicode.BigEndian, true
	}
	return unicode.LittleEndian, false
}

func hasC1Bytes(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}

func hasUndefinedWindows1252(data []byte) bool {
	for _, b := range data {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return true
		}
	}
	return false
}
