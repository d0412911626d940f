package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ribara/skillbridge/internal/ingestion"
	"github.com/ribara/skillbridge/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV against a job posting",
	Long:  "Extract a candidate profile from a CV, extract job requirements from a posting (file or URL), and report the skill gaps with severity.",
	RunE:  runAnalyze,
}

var (
	analyzeCVPath  string
	analyzeJobPath string
	analyzeJobURL  string
	analyzeOutPath string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCVPath, "cv", "", "Path to the CV file (.txt, .pdf or .docx)")
	analyzeCmd.Flags().StringVar(&analyzeJobPath, "job", "", "Path to a text file with the job posting")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL of the job posting")
	analyzeCmd.Flags().StringVarP(&analyzeOutPath, "out", "o", "", "Write the report JSON to this file")
	_ = analyzeCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if (analyzeJobPath == "") == (analyzeJobURL == "") {
		return fmt.Errorf("exactly one of --job or --job-url is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cvText, err := ingestion.ExtractDocumentText(analyzeCVPath)
	if err != nil {
		return fmt.Errorf("failed to read CV: %w", err)
	}

	var jobText string
	if analyzeJobPath != "" {
		data, err := os.ReadFile(analyzeJobPath)
		if err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
		jobText = ingestion.CleanText(string(data))
	} else {
		jobText, err = ingestion.IngestJobURL(ctx, analyzeJobURL, a.cfg.UseBrowser, a.log)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
	}

	report, err := a.analyzer.Analyze(ctx, cvText, jobText)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printReport(os.Stdout, report)

	if analyzeOutPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := os.WriteFile(analyzeOutPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", analyzeOutPath)
	}
	return nil
}

// printReport renders the report for a terminal.
func printReport(w *os.File, report *types.AnalysisReport) {
	fmt.Fprintf(w, "\n=== Skill Gap Report ===\n")
	fmt.Fprintf(w, "Candidate: %s\n", report.UserName)
	fmt.Fprintf(w, "Role:      %s at %s (%s)\n", report.JobRole, report.CompanyName, report.JobLocation)
	fmt.Fprintf(w, "\n%s\n", report.Summary)

	if len(report.SkillGaps) == 0 {
		fmt.Fprintf(w, "\nNo skill gaps found. You meet every listed requirement.\n")
		return
	}

	fmt.Fprintf(w, "\nYour skill gaps are:\n")
	for i, gap := range report.SkillGaps {
		fmt.Fprintf(w, "%d. %s (You: %s -> Required: %s, Severity: %s)\n",
			i+1, gap.Name, gap.CurrentLevel, gap.RequiredLevel, gap.Severity)
	}
}
