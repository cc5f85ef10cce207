package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze one resume file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeJobRole string
	analyzeUseLLM  bool
	analyzeJSON    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJobRole, "job-role", "", "Target job role (overrides the role found in the resume)")
	analyzeCmd.Flags().BoolVar(&analyzeUseLLM, "llm", false, "Ask the feedback provider for suggestions")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full analysis as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cmd.Context())
	if err != nil {
		return err
	}
	result, err := analyzer.Analyze(cmd.Context(), domain.AnalyzeRequest{
		Document: doc,
		JobRole:  analyzeJobRole,
		UseLLM:   analyzeUseLLM,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", args[0], err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(cmd.OutOrStdout(), doc.Filename, result)
	return nil
}

func readDocument(path string) (domain.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.RawDocument{Filename: filepath.Base(path), Data: data}, nil
}

func printResult(w io.Writer, filename string, r *domain.AnalysisResult) {
	f := r.ExtractedFields
	fmt.Fprintf(w, "%s\n", filename)
	fmt.Fprintf(w, "  final score:     %.1f\n", r.FinalScore)
	fmt.Fprintf(w, "  ml score:        %.1f (%s)\n", r.MLScore, r.Diagnostics.ModelStatus)
	fmt.Fprintf(w, "  structure score: %.1f\n", r.StructureScore)
	if f.JobRole != "" {
		fmt.Fprintf(w, "  job role:        %s\n", f.JobRole)
	}
	fmt.Fprintf(w, "  experience:      %.0f years\n", f.ExperienceYears)
	if len(f.Skills) > 0 {
		fmt.Fprintf(w, "  skills:          %s\n", strings.Join(f.Skills, ", "))
	}
	if f.Education != "" {
		fmt.Fprintf(w, "  education:       %s\n", f.Education)
	}

	var covered, missing []string
	for _, key := range domain.CanonicalSections {
		if r.SectionCoverage[key] {
			covered = append(covered, string(key))
		} else {
			missing = append(missing, string(key))
		}
	}
	fmt.Fprintf(w, "  sections:        %s\n", strings.Join(covered, ", "))
	if len(missing) > 0 {
		fmt.Fprintf(w, "  missing:         %s\n", strings.Join(missing, ", "))
	}

	fmt.Fprintf(w, "  feedback (%s):\n", r.FeedbackSource)
	for _, item := range r.Feedback {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}
