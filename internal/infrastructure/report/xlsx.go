// Package report writes batch analysis results to an XLSX workbook.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

const (
	ResultsSheet = "Analyses"
	SummarySheet = "Summary"
)

var resultHeader = []any{
	"File", "Kind", "Extractor", "Final score", "ML score", "Structure score",
	"Model status", "Feedback source", "Job role", "Skills", "Experience (years)",
	"Education level", "Projects", "Missing sections", "Error",
}

// Row is one analysed file. Err is set when the file could not be analysed.
type Row struct {
	Filename string
	Result   *domain.AnalysisResult
	Err      error
}

type Summary struct {
	Files    int
	Analysed int
	Failed   int
	Average  float64
	Min      float64
	Max      float64
	Median   float64
}

func Summarize(rows []Row) Summary {
	s := Summary{Files: len(rows)}
	var scores []float64
	for _, r := range rows {
		if r.Err != nil || r.Result == nil {
			s.Failed++
			continue
		}
		scores = append(scores, r.Result.FinalScore)
	}
	s.Analysed = len(scores)
	if len(scores) == 0 {
		return s
	}
	sort.Float64s(scores)
	total := 0.0
	for _, v := range scores {
		total += v
	}
	s.Average = round1(total / float64(len(scores)))
	s.Min = scores[0]
	s.Max = scores[len(scores)-1]
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		s.Median = round1((scores[mid-1] + scores[mid]) / 2)
	} else {
		s.Median = scores[mid]
	}
	return s
}

// WriteXLSX saves rows sorted by filename plus a summary sheet to path.
func WriteXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	if err := f.SetSheetRow(ResultsSheet, "A1", &resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(ResultsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, r := range sorted {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := resultValues(r)
		if err := f.SetSheetRow(ResultsSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %s: %w", r.Filename, err)
		}
	}
	if err := f.SetPanes(ResultsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := Summarize(rows)
	summaryRows := [][]any{
		{"Metric", "Value"},
		{"Files", summary.Files},
		{"Analysed", summary.Analysed},
		{"Failed", summary.Failed},
		{"Average final score", summary.Average},
		{"Median final score", summary.Median},
		{"Min final score", summary.Min},
		{"Max final score", summary.Max},
	}
	for i, values := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func resultValues(r Row) []any {
	if r.Err != nil || r.Result == nil {
		msg := "no result"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		values := make([]any, len(resultHeader))
		values[0] = r.Filename
		values[len(values)-1] = msg
		return values
	}
	res := r.Result
	fields := res.ExtractedFields
	return []any{
		r.Filename,
		string(res.Diagnostics.Extraction.DetectedKind),
		res.Diagnostics.Extraction.ExtractorUsed,
		res.FinalScore,
		res.MLScore,
		res.StructureScore,
		string(res.Diagnostics.ModelStatus),
		res.FeedbackSource,
		fields.JobRole,
		strings.Join(fields.Skills, ", "),
		fields.ExperienceYears,
		fields.EducationLevel,
		fields.ProjectsCount,
		strings.Join(missingSections(res.SectionCoverage), ", "),
		res.Diagnostics.Extraction.Error,
	}
}

func missingSections(c domain.Coverage) []string {
	var out []string
	for _, key := range domain.CanonicalSections {
		if !c[key] {
			out = append(out, string(key))
		}
	}
	return out
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
