package pdf

import (
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

const (
	letterWidth = 612.0

	// A page is read as two columns only when both sides carry at least
	// this many blocks; otherwise right-aligned dates would be torn away
	// from their lines.
	minColumnBlocks = 3
)

type block struct {
	line int
	x    float64
	end  float64
	text string
}

func (b block) center() float64 {
	return (b.x + b.end) / 2
}

// LayoutPage rebuilds reading order for one page of positioned glyphs.
// Glyphs are grouped into lines by baseline and lines into blocks at wide
// horizontal gaps. Blocks whose horizontal midpoint lies left of
// width*split form the left column, which is emitted before the right one.
func LayoutPage(glyphs []pdflib.Text, width, split float64) string {
	blocks := buildBlocks(groupLines(glyphs))
	if len(blocks) == 0 {
		return ""
	}

	boundary := width * split
	var left, right []block
	for _, b := range blocks {
		if b.center() < boundary {
			left = append(left, b)
		} else {
			right = append(right, b)
		}
	}
	if len(left) < minColumnBlocks || len(right) < minColumnBlocks {
		return renderBlocks(blocks)
	}
	return renderBlocks(left) + "\n" + renderBlocks(right)
}

func groupLines(glyphs []pdflib.Text) [][]pdflib.Text {
	sorted := make([]pdflib.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]pdflib.Text
	lineY := 0.0
	for _, g := range sorted {
		n := len(lines)
		if n == 0 || math.Abs(g.Y-lineY) > lineTolerance(g) {
			lines = append(lines, []pdflib.Text{g})
			lineY = g.Y
			continue
		}
		lines[n-1] = append(lines[n-1], g)
	}
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

func buildBlocks(lines [][]pdflib.Text) []block {
	var blocks []block
	for idx, line := range lines {
		var b strings.Builder
		start := line[0].X
		prev := line[0]
		b.WriteString(prev.S)
		for _, g := range line[1:] {
			gap := g.X - (prev.X + glyphWidth(prev))
			size := fontSize(g)
			switch {
			case gap > 1.5*size:
				blocks = appendBlock(blocks, idx, start, prev.X+glyphWidth(prev), b.String())
				b.Reset()
				start = g.X
			case gap > 0.2*size && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(g.S, " "):
				b.WriteByte(' ')
			}
			b.WriteString(g.S)
			prev = g
		}
		blocks = appendBlock(blocks, idx, start, prev.X+glyphWidth(prev), b.String())
	}
	return blocks
}

func appendBlock(blocks []block, line int, x, end float64, text string) []block {
	text = strings.TrimSpace(text)
	if text == "" {
		return blocks
	}
	return append(blocks, block{line: line, x: x, end: end, text: text})
}

// renderBlocks keeps the top-to-bottom, left-to-right order blocks were
// built in and joins blocks sharing a line with a space.
func renderBlocks(blocks []block) string {
	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			if blocks[i-1].line == blk.line {
				b.WriteByte(' ')
			} else {
				b.WriteByte('\n')
			}
		}
		b.WriteString(blk.text)
	}
	return b.String()
}

func fontSize(g pdflib.Text) float64 {
	if g.FontSize > 0 {
		return g.FontSize
	}
	return 10
}

func lineTolerance(g pdflib.Text) float64 {
	return math.Max(2, 0.4*fontSize(g))
}

// glyphWidth estimates half an em per rune when the font has no widths.
func glyphWidth(g pdflib.Text) float64 {
	if g.W > 0 {
		return g.W
	}
	return 0.5 * fontSize(g) * float64(len([]rune(g.S)))
}
