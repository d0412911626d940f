// Package extract turns raw CV and job posting text into structured
// profiles through a sequence of LLM extraction passes, then computes
// the skill-gap report locally.
package extract

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ribara/skillbridge/internal/llm"
	"github.com/ribara/skillbridge/internal/prompts"
	"github.com/ribara/skillbridge/internal/skills"
	"github.com/ribara/skillbridge/internal/types"
)

const promptsFile = "extraction.json"

type skillDTO struct {
	SkillName        string `json:"skill_name"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type cvProfileDTO struct {
	UserName       string     `json:"user_name"`
	Skills         []skillDTO `json:"skills"`
	ProfileSummary string     `json:"profile_summary"`
}

type cleanPostingDTO struct {
	JobRole            string `json:"job_role"`
	CleanedDescription string `json:"cleaned_description"`
}

type jobDetailsDTO struct {
	JobRole            string `json:"job_role"`
	CompanyName        string `json:"company_name"`
	JobLocation        string `json:"job_location"`
	DescriptionSummary string `json:"description_summary"`
}

type requirementsDTO struct {
	Skills []skillDTO `json:"skills"`
}

// Analyzer runs the extraction pipeline and assembles analysis reports.
type Analyzer struct {
	svc  *llm.Service
	gaps *skills.GapAnalyzer
	now  func() time.Time
	log  *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil gap analyzer gets the default
// severity scale; a nil clock gets time.Now.
func NewAnalyzer(svc *llm.Service, gaps *skills.GapAnalyzer, now func() time.Time, log *zap.Logger) *Analyzer {
	if gaps == nil {
		gaps = skills.NewGapAnalyzer(skills.DefaultSeverityScale())
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{svc: svc, gaps: gaps, now: now, log: log}
}

// AnalyzeCV extracts a structured candidate profile from CV text.
func (a *Analyzer) AnalyzeCV(ctx context.Context, cvText string) (*types.CandidateProfile, error) {
	prompt := prompts.Format(prompts.MustGet(promptsFile, "analyze-cv"), map[string]string{
		"CVText": cvText,
	})

	var dto cvProfileDTO
	if err := a.svc.Complete(ctx, prompt, cvProfileSchema, &dto); err != nil {
		return nil, fmt.Errorf("cv analysis: %w", err)
	}

	records, err := normalizeSkills(dto.Skills)
	if err != nil {
		return nil, fmt.Errorf("cv analysis: %w", err)
	}

	return &types.CandidateProfile{
		Name:    dto.UserName,
		Skills:  records,
		Summary: dto.ProfileSummary,
	}, nil
}

// CleanJobPosting strips boilerplate from raw posting text and returns
// the detected job role with the cleaned description.
func (a *Analyzer) CleanJobPosting(ctx context.Context, rawText string) (jobRole, cleaned string, err error) {
	prompt := prompts.Format(prompts.MustGet(promptsFile, "clean-job-posting"), map[string]string{
		"RawText": rawText,
	})

	var dto cleanPostingDTO
	if err := a.svc.Complete(ctx, prompt, cleanPostingSchema, &dto); err != nil {
		return "", "", fmt.Errorf("job posting cleanup: %w", err)
	}
	return dto.JobRole, dto.CleanedDescription, nil
}

// JobDetails extracts role, company, location and a summary from a
// cleaned job description.
func (a *Analyzer) JobDetails(ctx context.Context, jobRole, description string) (*types.JobProfile, error) {
	prompt := prompts.Format(prompts.MustGet(promptsFile, "job-details"), map[string]string{
		"JobRole":     jobRole,
		"Description": description,
	})

	var dto jobDetailsDTO
	if err := a.svc.Complete(ctx, prompt, jobDetailsSchema, &dto); err != nil {
		return nil, fmt.Errorf("job details: %w", err)
	}

	return &types.JobProfile{
		Role:     dto.JobRole,
		Company:  dto.CompanyName,
		Location: dto.JobLocation,
		Summary:  dto.DescriptionSummary,
	}, nil
}

// Requirements extracts required skills with proficiency levels from a
// cleaned job description.
func (a *Analyzer) Requirements(ctx context.Context, description string) ([]types.SkillRecord, error) {
	prompt := prompts.Format(prompts.MustGet(promptsFile, "extract-requirements"), map[string]string{
		"Description": description,
	})

	var dto requirementsDTO
	if err := a.svc.Complete(ctx, prompt, requirementsSchema, &dto); err != nil {
		return nil, fmt.Errorf("requirements extraction: %w", err)
	}
	records, err := normalizeSkills(dto.Skills)
	if err != nil {
		return nil, fmt.Errorf("requirements extraction: %w", err)
	}
	return records, nil
}

// Analyze runs the full pipeline over CV text and job posting text.
// The CV pass and the job pipeline run concurrently; within the job
// pipeline, details and requirements run concurrently once the posting
// is cleaned.
func (a *Analyzer) Analyze(ctx context.Context, cvText, jobText string) (*types.AnalysisReport, error) {
	var (
		candidate *types.CandidateProfile
		job       *types.JobProfile
		required  []types.SkillRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		candidate, err = a.AnalyzeCV(gctx, cvText)
		return err
	})

	g.Go(func() error {
		jobRole, cleaned, err := a.CleanJobPosting(gctx, jobText)
		if err != nil {
			return err
		}

		jg, jctx := errgroup.WithContext(gctx)
		jg.Go(func() error {
			var err error
			job, err = a.JobDetails(jctx, jobRole, cleaned)
			return err
		})
		jg.Go(func() error {
			var err error
			required, err = a.Requirements(jctx, cleaned)
			return err
		})
		return jg.Wait()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	job.RequiredSkills = required

	gaps, err := a.gaps.ComputeGaps(candidate.Skills, required)
	if err != nil {
		return nil, fmt.Errorf("gap computation: %w", err)
	}

	a.log.Info("analysis complete",
		zap.String("user", candidate.Name),
		zap.String("role", job.Role),
		zap.Int("required_skills", len(required)),
		zap.Int("gaps", len(gaps)))

	return skills.AssembleReport(candidate, job, gaps, a.now)
}

// normalizeSkills converts raw LLM skill entries into canonical
// records, merging duplicates. Entries whose name is empty after
// cleanup are dropped; a proficiency the scale does not know is
// treated as malformed model output.
func normalizeSkills(dtos []skillDTO) ([]types.SkillRecord, error) {
	records := make([]types.SkillRecord, 0, len(dtos))
	for _, dto := range dtos {
		if skills.CanonicalName(dto.SkillName) == "" {
			continue
		}
		rec, err := skills.Normalize(dto.SkillName, dto.ProficiencyLevel)
		if err != nil {
			return nil, &llm.MalformedOutputError{
				Schema: "skill_record",
				Issues: []string{err.Error()},
				Cause:  err,
			}
		}
		records = append(records, rec)
	}
	return skills.MergeRecords(records), nil
}
