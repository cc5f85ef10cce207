// Package docx reads paragraph and table text from a DOCX archive without a
// document-model library: it streams word/document.xml and keeps text runs.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	Strategy     = "docx-xml"
	documentPart = "word/document.xml"

	maxDocumentXMLBytes = 64 << 20
	cellSeparator       = " | "
)

var errNoDocumentPart = errors.New("word/document.xml not found")

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Read returns body paragraphs in document order followed by table rows,
// cells joined with " | ". Headers, footers and comments are ignored.
func (e *Extractor) Read(_ context.Context, data []byte, meta *domain.ExtractionMeta) string {
	meta.DetectedKind = domain.KindDOCX

	paragraphs, rows, err := readDocument(data)
	if err != nil {
		meta.Record(Strategy, domain.AttemptError, err)
		meta.Error = fmt.Sprintf("read docx: %v", err)
		return ""
	}
	text := strings.TrimSpace(strings.Join(append(paragraphs, rows...), "\n"))
	if text == "" {
		meta.Record(Strategy, domain.AttemptEmpty, nil)
		meta.Error = "docx contains no text"
		return ""
	}
	meta.Record(Strategy, domain.AttemptOK, nil)
	return text
}

func readDocument(data []byte) ([]string, []string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()
		return parseDocumentXML(io.LimitReader(rc, maxDocumentXMLBytes))
	}
	return nil, nil, errNoDocumentPart
}

// parseDocumentXML walks WordprocessingML tokens. Paragraph text outside
// tables goes to paragraphs; each table row becomes one line in rows.
func parseDocumentXML(r io.Reader) (paragraphs, rows []string, err error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		para       strings.Builder
		cell       strings.Builder
		cells      []string
		tableDepth int
		inText     bool
	)
	write := func(s string) {
		if tableDepth > 0 {
			cell.WriteString(s)
		} else {
			para.WriteString(s)
		}
	}

	for {
		tok, tokErr := dec.Token()
		if tokErr == io.EOF {
			break
		}
		if tokErr != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", documentPart, tokErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				write(" ")
			case "br", "cr":
				write("\n")
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					cells = cells[:0]
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tableDepth > 0 {
					cell.WriteString(" ")
				} else {
					paragraphs = appendLine(paragraphs, para.String())
					para.Reset()
				}
			case "tc":
				if tableDepth == 1 {
					cells = append(cells, strings.Join(strings.Fields(cell.String()), " "))
					cell.Reset()
				}
			case "tr":
				if tableDepth == 1 {
					rows = appendLine(rows, joinCells(cells))
				}
			case "tbl":
				tableDepth--
			}
		case xml.CharData:
			if inText {
				write(string(t))
			}
		}
	}
	if para.Len() > 0 {
		paragraphs = appendLine(paragraphs, para.String())
	}
	return paragraphs, rows, nil
}

func joinCells(cells []string) string {
	nonEmpty := make([]string, 0, len(cells))
	for _, c := range cells {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, cellSeparator)
}

func appendLine(lines []string, line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return lines
	}
	return append(lines, line)
}
