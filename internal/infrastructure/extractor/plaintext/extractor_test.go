package plaintext

import (
	"context"
	"testing"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

func TestDecodeLadder(t *testing.T) {
	cases := []struct {
		name    string
		data    []byte
		want    string
		wantEnc string
	}{
		{name: "utf8", data: []byte("Jürgen Doe"), want: "Jürgen Doe", wantEnc: EncodingUTF8},
		{name: "utf8 bom", data: append([]byte{0xEF, 0xBB, 0xBF}, "Skills"...), want: "Skills", wantEnc: EncodingUTF8},
		{name: "utf16le bom", data: []byte{0xFF, 0xFE, 'G', 0, 'o', 0}, want: "Go", wantEnc: EncodingUTF16LE},
		{name: "utf16be bom", data: []byte{0xFE, 0xFF, 0, 'G', 0, 'o'}, want: "Go", wantEnc: EncodingUTF16BE},
		{name: "utf16le without bom", data: []byte{'S', 0, 'Q', 0, 'L', 0, 0xE9, 0}, want: "SQLé", wantEnc: EncodingUTF16LE},
		{name: "latin1", data: []byte("Ren\xe9 M\xfcller"), want: "René Müller", wantEnc: EncodingLatin1},
		{name: "windows-1252 quotes", data: []byte("\x93Go\x94 \x96 Docker"), want: "“Go” – Docker", wantEnc: EncodingWindows1252},
		{name: "replacement", data: []byte("bad \x81\xff byte"), want: "bad � byte", wantEnc: EncodingReplacement},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, enc := Decode(tc.data)
			if got != tc.want || enc != tc.wantEnc {
				t.Fatalf("Decode() = %q/%s, want %q/%s", got, enc, tc.want, tc.wantEnc)
			}
		})
	}
}

func TestReadPlainText(t *testing.T) {
	meta := &domain.ExtractionMeta{}
	got := NewExtractor().Read(context.Background(), []byte("\n# Skills\n- Go\n"), meta)
	if got != "# Skills\n- Go" {
		t.Fatalf("unexpected text: %q", got)
	}
	if meta.ExtractorUsed != StrategyText || meta.Encoding != EncodingUTF8 || meta.DetectedKind != domain.KindText {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestReadBlankText(t *testing.T) {
	meta := &domain.ExtractionMeta{}
	if got := NewExtractor().Read(context.Background(), []byte(" \n\t"), meta); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if meta.Error == "" || meta.Attempts[0].Outcome != domain.AttemptEmpty {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestReadRTF(t *testing.T) {
	doc := `{\rtf1\ansi\deff0{\fonttbl{\f0 Times New Roman;}}{\colortbl;\red0\green0\blue0;}` +
		`{\*\generator Riched20;}\f0\fs24 Jane Doe\par` + "\r\n" +
		`\b Skills\b0\par` +
		`Go\tab Docker\par` +
		`Caf\'e9 owner \u8212? since 2019\par}`
	meta := &domain.ExtractionMeta{}

	got := NewExtractor().Read(context.Background(), []byte(doc), meta)

	want := "Jane Doe\nSkills\nGo Docker\nCafé owner — since 2019"
	if got != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", got, want)
	}
	if meta.ExtractorUsed != StrategyRTF {
		t.Fatalf("expected rtf strategy, got %+v", meta)
	}
}

func TestStripRTFEscapes(t *testing.T) {
	got := StripRTF(`{\rtf1 a\{b\}c\\d\~e}`)
	if got != `a{b}c\d e` {
		t.Fatalf("unexpected text: %q", got)
	}
}
