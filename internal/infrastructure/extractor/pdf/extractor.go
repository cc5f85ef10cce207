// Package pdf reads resume text from PDF bytes through a fallback ladder:
// layout-aware two-column reconstruction, the library's native plain text,
// then row-oriented extraction.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	DefaultColumnSplit = 0.55

	StrategyOpen   = "pdf-open"
	StrategyLayout = "pdf-layout"
	StrategyNative = "pdf-native"
	StrategyRows   = "pdf-rows"

	pageSeparator = "\f"
)

var errNoText = errors.New("no text extracted from pdf")

type step struct {
	name string
	run  func(r *pdflib.Reader) (string, error)
}

// Extractor is safe for concurrent use.
type Extractor struct {
	columnSplit float64
	steps       []step
}

// NewExtractor falls back to DefaultColumnSplit when columnSplit is not
// inside (0,1).
func NewExtractor(columnSplit float64) *Extractor {
	if columnSplit <= 0 || columnSplit >= 1 {
		columnSplit = DefaultColumnSplit
	}
	e := &Extractor{columnSplit: columnSplit}
	e.steps = []step{
		{name: StrategyLayout, run: e.layoutText},
		{name: StrategyNative, run: nativeText},
		{name: StrategyRows, run: rowText},
	}
	return e
}

// Read returns the first non-empty ladder result. Every attempt, including
// recovered library panics, is recorded on meta. Pages are separated by
// form feeds.
func (e *Extractor) Read(ctx context.Context, data []byte, meta *domain.ExtractionMeta) string {
	meta.DetectedKind = domain.KindPDF

	reader, err := open(data)
	if err != nil {
		meta.Record(StrategyOpen, domain.AttemptError, err)
		meta.Error = fmt.Sprintf("open pdf: %v", err)
		return ""
	}
	meta.PageCount = pageCount(reader)

	for _, s := range e.steps {
		if err := ctx.Err(); err != nil {
			meta.Record(s.name, domain.AttemptError, err)
			meta.Error = err.Error()
			return ""
		}
		text, err := runStep(s, reader)
		switch {
		case err != nil:
			meta.Record(s.name, domain.AttemptError, err)
		case strings.TrimSpace(text) == "":
			meta.Record(s.name, domain.AttemptEmpty, nil)
		default:
			meta.Record(s.name, domain.AttemptOK, nil)
			return text
		}
	}
	meta.Error = errNoText.Error()
	return ""
}

func open(data []byte) (reader *pdflib.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageCount(r *pdflib.Reader) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return r.NumPage()
}

func runStep(s step, r *pdflib.Reader) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("recovered panic: %v", rec)
		}
	}()
	return s.run(r)
}

func (e *Extractor) layoutText(r *pdflib.Reader) (string, error) {
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		glyphs := p.Content().Text
		pages = append(pages, LayoutPage(glyphs, pageWidth(p, glyphs), e.columnSplit))
	}
	return strings.Join(pages, pageSeparator), nil
}

func nativeText(r *pdflib.Reader) (string, error) {
	n := r.NumPage()
	fonts := make(map[string]*pdflib.Font)
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, pageSeparator), nil
}

func rowText(r *pdflib.Reader) (string, error) {
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var b strings.Builder
			for _, t := range row.Content {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") {
					b.WriteByte(' ')
				}
				b.WriteString(t.S)
			}
			lines = append(lines, b.String())
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, pageSeparator), nil
}

// pageWidth prefers the (possibly inherited) MediaBox and otherwise uses
// the right edge of the rightmost glyph.
func pageWidth(p pdflib.Page, glyphs []pdflib.Text) float64 {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if w := box.Index(2).Float64() - box.Index(0).Float64(); w > 0 {
				return w
			}
		}
	}
	width := 0.0
	for _, g := range glyphs {
		if right := g.X + glyphWidth(g); right > width {
			width = right
		}
	}
	if width == 0 {
		return letterWidth
	}
	return width
}
