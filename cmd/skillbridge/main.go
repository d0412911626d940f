// Package main provides the skillbridge CLI: CV/job skill-gap analysis
// and an LLM tutoring loop for closing the gaps.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillbridge",
	Short: "CV/job skill-gap analysis and tutoring",
	Long:  "Skillbridge compares a CV against a job posting, reports skill gaps with severity, and runs a tutoring session focused on closing one gap at a time.",
}

var (
	flagConfigPath string
	flagAPIKey     string
	flagVerbose    bool
	flagLogJSON    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Log in JSON format")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
