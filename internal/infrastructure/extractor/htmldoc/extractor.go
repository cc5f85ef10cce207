// Package htmldoc turns HTML resumes into line-oriented text. Block elements
// become line breaks and list items keep a "- " marker so section and
// bullet detection downstream work the same as for PDF and DOCX input.
package htmldoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const Strategy = "html-dom"

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Tr: true, atom.Ul: true,
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Read decodes data using the charset declared by contentType or the
// document itself and renders the body as text.
func (e *Extractor) Read(_ context.Context, data []byte, contentType string, meta *domain.ExtractionMeta) string {
	meta.DetectedKind = domain.KindHTML

	r, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		meta.Record(Strategy, domain.AttemptError, err)
		meta.Error = fmt.Sprintf("decode html: %v", err)
		return ""
	}
	_, name, _ := charset.DetermineEncoding(data, contentType)
	meta.Encoding = name

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		meta.Record(Strategy, domain.AttemptError, err)
		meta.Error = fmt.Sprintf("parse html: %v", err)
		return ""
	}
	doc.Find("script, style, noscript, template, head, svg").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	var b strings.Builder
	for _, n := range root.Nodes {
		render(&b, n)
	}
	text := collapseLines(b.String())
	if text == "" {
		meta.Record(Strategy, domain.AttemptEmpty, nil)
		meta.Error = "html contains no text"
		return ""
	}
	meta.Record(Strategy, domain.AttemptOK, nil)
	return text
}

func render(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.Td, atom.Th:
			b.WriteString(" | ")
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
		if n.DataAtom == atom.Li {
			b.WriteString("- ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// collapseLines squeezes runs of whitespace inside each line, trims table
// cell separators at line edges and drops blank lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		line = strings.TrimSpace(strings.Trim(line, "|"))
		if line == "" || line == "-" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
