package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ribara/skillbridge/internal/llm"
	"github.com/ribara/skillbridge/internal/tutor"
	"github.com/ribara/skillbridge/internal/types"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Start an interactive tutoring session from an analysis report",
	Long:  "Pick one skill gap from a saved analysis report and work on it with the tutor. Type 'exit' to stop at any time.",
	RunE:  runTutor,
}

var (
	tutorReportPath string
	tutorSkillName  string
)

func init() {
	tutorCmd.Flags().StringVar(&tutorReportPath, "report", "", "Path to the analysis report JSON")
	tutorCmd.Flags().StringVar(&tutorSkillName, "skill", "", "Skill to work on (skips the gap menu)")
	_ = tutorCmd.MarkFlagRequired("report")

	rootCmd.AddCommand(tutorCmd)
}

func runTutor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(tutorReportPath)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	var report types.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("failed to parse report: %w", err)
	}
	if len(report.SkillGaps) == 0 {
		fmt.Println("No skill gaps found. You're job-ready.")
		return nil
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	in := bufio.NewScanner(os.Stdin)
	gap, err := pickGap(&report, tutorSkillName, in)
	if err != nil {
		return err
	}

	params := tutor.StartParams{
		UserName:       report.UserName,
		JobRole:        report.JobRole,
		JobProficiency: highestRequiredLevel(report.RequiredSkills),
		FocusSkill:     gap.Name,
		TargetLevel:    gap.RequiredLevel,
	}

	state, reply, err := a.tutor.StartSession(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	fmt.Printf("\nSession %s. Type 'exit' to stop learning at any time.\n", state.SessionID)
	fmt.Printf("\nTutor: %s\n\n", reply)

	for {
		fmt.Print("You: ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			fmt.Println("Tutor: Good session. Go practice and come back later.")
			break
		}

		reply, _, err := a.tutor.HandleTurn(ctx, state.SessionID, line)
		if err != nil {
			if errors.Is(err, llm.ErrServiceUnavailable) {
				fmt.Println("Tutor is unavailable right now, your last message was not recorded. Try again.")
				continue
			}
			return fmt.Errorf("turn failed: %w", err)
		}
		fmt.Printf("Tutor: %s\n\n", reply)
	}

	return a.tutor.EndSession(ctx, state.SessionID)
}

// pickGap resolves which gap to work on, either from the --skill flag
// or interactively. Invalid menu input falls back to the first gap.
func pickGap(report *types.AnalysisReport, skillName string, in *bufio.Scanner) (types.SkillGap, error) {
	if skillName != "" {
		for _, gap := range report.SkillGaps {
			if strings.EqualFold(gap.Name, skillName) {
				return gap, nil
			}
		}
		return types.SkillGap{}, fmt.Errorf("skill %q is not among the report's gaps", skillName)
	}

	fmt.Println("\nYour skill gaps are:")
	for i, gap := range report.SkillGaps {
		fmt.Printf("%d. %s (You: %s -> Required: %s, Severity: %s)\n",
			i+1, gap.Name, gap.CurrentLevel, gap.RequiredLevel, gap.Severity)
	}
	fmt.Print("\nWhich skill would you like to work on first? (enter number): ")

	if in.Scan() {
		if idx, err := strconv.Atoi(strings.TrimSpace(in.Text())); err == nil && idx >= 1 && idx <= len(report.SkillGaps) {
			return report.SkillGaps[idx-1], nil
		}
	}
	fmt.Println("Invalid choice, defaulting to the first gap.")
	return report.SkillGaps[0], nil
}

// highestRequiredLevel approximates the role's overall proficiency from
// its requirements.
func highestRequiredLevel(required []types.SkillRecord) types.ProficiencyLevel {
	level := types.LevelNone
	for _, rec := range required {
		if rec.Level > level {
			level = rec.Level
		}
	}
	return level
}
