package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

type textLine struct {
	x, y float64
	text string
}

// buildPDF writes a minimal single-font PDF with one BT/ET block per line.
func buildPDF(pages ...[]textLine) []byte {
	var objects []string
	pageCount := len(pages)
	fontID := 3 + 2*pageCount

	kids := make([]string, 0, pageCount)
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), pageCount),
	)
	for i, lines := range pages {
		var content strings.Builder
		for _, l := range lines {
			escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(l.text)
			fmt.Fprintf(&content, "BT /F1 10 Tf %.0f %.0f Td (%s) Tj ET\n", l.x, l.y, escaped)
		}
		stream := content.String()
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream),
		)
	}
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	objects = append(objects, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", widths))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func twoColumnPage() []textLine {
	return []textLine{
		{x: 40, y: 720, text: "Experience"},
		{x: 400, y: 720, text: "Skills"},
		{x: 40, y: 700, text: "Acme Corp, Backend Engineer"},
		{x: 400, y: 700, text: "Go"},
		{x: 40, y: 680, text: "Built billing APIs"},
		{x: 400, y: 680, text: "Docker"},
	}
}

func TestReadTwoColumnLayout(t *testing.T) {
	meta := domain.ExtractionMeta{}
	text := NewExtractor(DefaultColumnSplit).Read(context.Background(), buildPDF(twoColumnPage()), &meta)

	want := "Experience\nAcme Corp, Backend Engineer\nBuilt billing APIs\nSkills\nGo\nDocker"
	if text != want {
		t.Fatalf("Read() = %q, want %q", text, want)
	}
	if meta.ExtractorUsed != StrategyLayout || meta.PageCount != 1 || meta.Error != "" {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestReadJoinsPagesWithFormFeed(t *testing.T) {
	page := func(body string) []textLine {
		return []textLine{{x: 40, y: 760, text: "Jane Doe - Resume"}, {x: 40, y: 700, text: body}}
	}
	meta := domain.ExtractionMeta{}
	text := NewExtractor(0).Read(context.Background(), buildPDF(page("Summary"), page("Education")), &meta)

	pages := strings.Split(text, "\f")
	if len(pages) != 2 || !strings.Contains(pages[1], "Education") {
		t.Fatalf("expected two form-feed separated pages, got %q", text)
	}
	if meta.PageCount != 2 {
		t.Fatalf("pageCount = %d", meta.PageCount)
	}
}

func TestReadFallsBackWhenLayoutPanics(t *testing.T) {
	e := NewExtractor(DefaultColumnSplit)
	e.steps[0].run = func(*pdflib.Reader) (string, error) { panic("bad content stream") }

	meta := domain.ExtractionMeta{}
	text := e.Read(context.Background(), buildPDF(twoColumnPage()), &meta)
	if !strings.Contains(text, "Built billing APIs") {
		t.Fatalf("expected native text, got %q", text)
	}
	if meta.ExtractorUsed != StrategyNative {
		t.Fatalf("extractorUsed = %q", meta.ExtractorUsed)
	}
	if len(meta.Attempts) != 2 || meta.Attempts[0].Outcome != domain.AttemptError || !strings.Contains(meta.Attempts[0].Error, "bad content stream") {
		t.Fatalf("expected recorded layout failure, got %+v", meta.Attempts)
	}
}

func TestReadFallsBackToRows(t *testing.T) {
	e := NewExtractor(DefaultColumnSplit)
	e.steps[0].run = func(*pdflib.Reader) (string, error) { return "  ", nil }
	e.steps[1].run = func(*pdflib.Reader) (string, error) { return "", fmt.Errorf("unsupported encoding") }

	meta := domain.ExtractionMeta{}
	text := e.Read(context.Background(), buildPDF(twoColumnPage()), &meta)
	if !strings.Contains(text, "Docker") || meta.ExtractorUsed != StrategyRows {
		t.Fatalf("expected row text, got %q (%+v)", text, meta)
	}
	outcomes := []string{meta.Attempts[0].Outcome, meta.Attempts[1].Outcome, meta.Attempts[2].Outcome}
	if strings.Join(outcomes, ",") != "empty,error,ok" {
		t.Fatalf("unexpected outcomes %v", outcomes)
	}
}

func TestReadInvalidPDF(t *testing.T) {
	meta := domain.ExtractionMeta{}
	text := NewExtractor(DefaultColumnSplit).Read(context.Background(), []byte("%PDF-1.4\nnot really a pdf"), &meta)
	if text != "" || meta.Error == "" {
		t.Fatalf("expected empty text with error, got %q %+v", text, meta)
	}
	if meta.Attempts[0].Strategy != StrategyOpen {
		t.Fatalf("expected open failure, got %+v", meta.Attempts)
	}
}

func glyphs(x, y float64, s string) []pdflib.Text {
	out := make([]pdflib.Text, 0, len(s))
	for i, r := range s {
		out = append(out, pdflib.Text{FontSize: 10, X: x + float64(i)*5, Y: y, W: 5, S: string(r)})
	}
	return out
}

func TestLayoutPageKeepsRightAlignedDatesOnTheirLine(t *testing.T) {
	var page []pdflib.Text
	page = append(page, glyphs(40, 700, "Backend Engineer")...)
	page = append(page, glyphs(480, 700, "2019 - 2021")...)
	page = append(page, glyphs(40, 680, "Built APIs")...)

	got := LayoutPage(page, 612, DefaultColumnSplit)
	want := "Backend Engineer 2019 - 2021\nBuilt APIs"
	if got != want {
		t.Fatalf("LayoutPage() = %q, want %q", got, want)
	}
}

func TestLayoutPageSplitsColumnsByBlockMidpoint(t *testing.T) {
	var page []pdflib.Text
	for i, suffix := range []string{"A", "B", "C"} {
		y := 700 - float64(i)*20
		page = append(page, glyphs(40, y, "LEFT"+suffix)...)
		// starts left of the 336.6 boundary, centred right of it
		page = append(page, glyphs(320, y, "RIGHTCOLUMNTEXT"+suffix)...)
	}

	got := LayoutPage(page, 612, DefaultColumnSplit)
	want := "LEFTA\nLEFTB\nLEFTC\nRIGHTCOLUMNTEXTA\nRIGHTCOLUMNTEXTB\nRIGHTCOLUMNTEXTC"
	if got != want {
		t.Fatalf("LayoutPage() = %q, want %q", got, want)
	}
}

func TestLayoutPageInsertsWordGaps(t *testing.T) {
	page := []pdflib.Text{
		{FontSize: 10, X: 40, Y: 700, W: 20, S: "Lead"},
		{FontSize: 10, X: 64, Y: 700, W: 30, S: "Engineer"},
	}
	if got := LayoutPage(page, 612, DefaultColumnSplit); got != "Lead Engineer" {
		t.Fatalf("LayoutPage() = %q", got)
	}
	if got := LayoutPage(nil, 612, DefaultColumnSplit); got != "" {
		t.Fatalf("LayoutPage(nil) = %q", got)
	}
}
