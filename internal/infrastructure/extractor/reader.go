// Package extractor turns uploaded resume bytes into normalized text. It
// decides the document kind and hands the bytes to the matching reader.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/textnorm"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/extractor/htmldoc"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/extractor/plaintext"
)

const (
	DetectedBySignature   = "signature"
	DetectedByContentType = "content-type"
	DetectedByExtension   = "extension"
	DetectedByDefault     = "default"

	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZIP  = "application/zip"
	mimeHTML = "text/html"
	mimeText = "text/plain"
)

type kindReader interface {
	Read(ctx context.Context, data []byte, meta *domain.ExtractionMeta) string
}

type markupReader interface {
	Read(ctx context.Context, data []byte, contentType string, meta *domain.ExtractionMeta) string
}

// Reader implements ports.DocumentReader. It is stateless and safe for
// concurrent use.
type Reader struct {
	pdf    kindReader
	docx   kindReader
	text   kindReader
	html   markupReader
	logger *slog.Logger
}

func NewReader(columnSplit float64, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		pdf:    pdf.NewExtractor(columnSplit),
		docx:   docx.NewExtractor(),
		text:   plaintext.NewExtractor(),
		html:   htmldoc.NewExtractor(),
		logger: logger,
	}
}

// Extract returns normalized text and extraction diagnostics. An unreadable
// document is not an error: it yields empty text with meta.Error set. Only
// recognized unsupported formats return an error.
func (r *Reader) Extract(ctx context.Context, doc domain.RawDocument) (string, domain.ExtractionMeta, error) {
	var meta domain.ExtractionMeta

	kind, detectedBy, err := DetectKind(doc)
	if err != nil {
		return "", meta, err
	}
	meta.DetectedKind = kind
	meta.DetectedBy = detectedBy

	if len(doc.Data) == 0 {
		meta.Error = domain.ErrEmptyDocument.Error()
		return "", meta, nil
	}

	var raw string
	switch kind {
	case domain.KindPDF:
		raw = r.pdf.Read(ctx, doc.Data, &meta)
	case domain.KindDOCX:
		raw = r.docx.Read(ctx, doc.Data, &meta)
	case domain.KindHTML:
		raw = r.html.Read(ctx, doc.Data, doc.ContentType, &meta)
	default:
		raw = r.text.Read(ctx, doc.Data, &meta)
	}
	// Sub-readers report what they actually parsed; detection stays ours.
	meta.DetectedKind = kind

	text := textnorm.Normalize(raw)
	if text == "" && meta.Error == "" {
		meta.Error = "no text extracted"
	}
	r.logFallbacks(doc.Filename, meta)
	return text, meta, nil
}

func (r *Reader) logFallbacks(filename string, meta domain.ExtractionMeta) {
	for _, a := range meta.Attempts {
		if a.Outcome == domain.AttemptOK {
			return
		}
		r.logger.Warn("extractor_fallback",
			"filename", filename,
			"kind", meta.DetectedKind,
			"strategy", a.Strategy,
			"outcome", a.Outcome,
			"error", a.Error,
		)
	}
}

// DetectKind applies byte signature, then declared content type, then
// filename extension, and defaults to plain text. Recognized binary formats
// that have no reader are rejected with domain.ErrUnsupportedFormat.
func DetectKind(doc domain.RawDocument) (domain.DocumentKind, string, error) {
	declared, declaredBy := declaredKind(doc)

	if len(doc.Data) == 0 {
		if declaredBy != "" {
			return declared, declaredBy, nil
		}
		return domain.KindText, DetectedByDefault, nil
	}

	mt := mimetype.Detect(doc.Data)
	switch {
	case mt.Is(mimePDF):
		return domain.KindPDF, DetectedBySignature, nil
	case mt.Is(mimeDOCX):
		return domain.KindDOCX, DetectedBySignature, nil
	case mt.Is(mimeZIP):
		// Archives whose word/ parts sit past the sniff window still
		// count as DOCX when the upload says so.
		if declared == domain.KindDOCX {
			return domain.KindDOCX, declaredBy, nil
		}
		return "", "", unsupported(mt)
	case mt.Is(mimeHTML):
		return domain.KindHTML, DetectedBySignature, nil
	case isTextual(mt):
		if declared == domain.KindHTML {
			return domain.KindHTML, declaredBy, nil
		}
		return domain.KindText, DetectedBySignature, nil
	case mt.Is("application/octet-stream"):
		if declaredBy != "" {
			return declared, declaredBy, nil
		}
		return domain.KindText, DetectedByDefault, nil
	default:
		return "", "", unsupported(mt)
	}
}

func unsupported(mt *mimetype.MIME) error {
	return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, mt.String())
}

func isTextual(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return true
		}
	}
	return false
}

func declaredKind(doc domain.RawDocument) (domain.DocumentKind, string) {
	if kind, ok := kindFromContentType(doc.ContentType); ok {
		return kind, DetectedByContentType
	}
	if kind, ok := kindFromExtension(doc.Filename); ok {
		return kind, DetectedByExtension
	}
	return "", ""
}

func kindFromContentType(contentType string) (domain.DocumentKind, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case mimePDF, "application/x-pdf":
		return domain.KindPDF, true
	case mimeDOCX:
		return domain.KindDOCX, true
	case mimeHTML, "application/xhtml+xml":
		return domain.KindHTML, true
	case mimeText, "text/markdown", "text/x-markdown", "text/rtf", "application/rtf":
		return domain.KindText, true
	}
	return "", false
}

func kindFromExtension(filename string) (domain.DocumentKind, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return domain.KindPDF, true
	case ".docx":
		return domain.KindDOCX, true
	case ".html", ".htm", ".xhtml":
		return domain.KindHTML, true
	case ".txt", ".text", ".md", ".markdown", ".rtf":
		return domain.KindText, true
	}
	return "", false
}

// Supported reports whether a filename has an extension the reader handles.
func Supported(filename string) bool {
	_, ok := kindFromExtension(filename)
	return ok
}
