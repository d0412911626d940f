package skills

import (
	"fmt"
	"time"

	"github.com/ribara/skillbridge/internal/types"
)

// AssembleReport composes extraction output and computed gaps into the final
// report. The clock is injected so tests can pin the timestamp; pass
// time.Now for production use.
func AssembleReport(candidate *types.CandidateProfile, job *types.JobProfile, gaps []types.SkillGap, now func() time.Time) (*types.AnalysisReport, error) {
	if candidate == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}
	if job == nil {
		return nil, fmt.Errorf("job profile is required")
	}
	if now == nil {
		now = time.Now
	}
	if gaps == nil {
		gaps = []types.SkillGap{}
	}

	return &types.AnalysisReport{
		Timestamp:      now().Format(types.ReportTimeFormat),
		UserName:       candidate.Name,
		UserSkills:     candidate.Skills,
		ProfileSummary: candidate.Summary,
		JobRole:        job.Role,
		JobLocation:    job.Location,
		CompanyName:    job.Company,
		Summary:        job.Summary,
		RequiredSkills: job.RequiredSkills,
		SkillGaps:      gaps,
	}, nil
}
