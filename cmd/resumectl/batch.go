package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/extractor"
	"github.com/kirillkom/resume-analyzer/internal/infrastructure/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every supported resume in a directory and write an XLSX report",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

var (
	batchOut         string
	batchConcurrency int
	batchJobRole     string
	batchUseLLM      bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "report.xlsx", "Output workbook path")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", runtime.NumCPU(), "Files analysed in parallel")
	batchCmd.Flags().StringVar(&batchJobRole, "job-role", "", "Target job role applied to every file")
	batchCmd.Flags().BoolVar(&batchUseLLM, "llm", false, "Ask the feedback provider for suggestions")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := collectResumes(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported resume files in %s", args[0])
	}

	analyzer, err := newAnalyzer(cmd.Context())
	if err != nil {
		return err
	}

	rows, err := analyzeFiles(cmd.Context(), analyzer, files, batchConcurrency, batchJobRole, batchUseLLM)
	if err != nil {
		return err
	}
	if err := report.WriteXLSX(batchOut, rows); err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), report.Summarize(rows), batchOut)
	return nil
}

// collectResumes walks dir and returns supported files in lexical order.
func collectResumes(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if extractor.Supported(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// analyzeFiles records a per-file error in its row; only context
// cancellation aborts the batch.
func analyzeFiles(
	ctx context.Context,
	analyzer ports.ResumeAnalyzer,
	files []string,
	concurrency int,
	jobRole string,
	useLLM bool,
) ([]report.Row, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	rows := make([]report.Row, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			row := report.Row{Filename: filepath.Base(path)}
			doc, err := readDocument(path)
			if err != nil {
				row.Err = err
				rows[i] = row
				return nil
			}
			row.Result, row.Err = analyzer.Analyze(gCtx, domain.AnalyzeRequest{
				Document: doc,
				JobRole:  jobRole,
				UseLLM:   useLLM,
			})
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func printSummary(w io.Writer, s report.Summary, out string) {
	fmt.Fprintf(w, "analysed %d of %d files (%d failed)\n", s.Analysed, s.Files, s.Failed)
	if s.Analysed > 0 {
		fmt.Fprintf(w, "final score: avg %.1f, median %.1f, min %.1f, max %.1f\n", s.Average, s.Median, s.Min, s.Max)
	}
	fmt.Fprintf(w, "report written to %s\n", out)
}
