package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "Print the sections detected in a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(cmd.Context())
	if err != nil {
		return err
	}

	sectionMap, meta, err := analyzer.DetectSections(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kind=%s detected_by=%s extractor=%s\n", meta.DetectedKind, meta.DetectedBy, meta.ExtractorUsed)
	if meta.Error != "" {
		fmt.Fprintf(out, "error: %s\n", meta.Error)
	}
	for _, s := range sectionMap.Sections {
		heading := s.Heading
		if heading == "" {
			heading = "(no heading)"
		}
		fmt.Fprintf(out, "\n[%s] %s  (line %d)\n", s.Key, heading, s.StartLine)
		for _, line := range strings.Split(s.Text, "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}
