package skills

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ribara/skillbridge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestAssembleReport(t *testing.T) {
	candidate := &types.CandidateProfile{
		Name:    "Ada Lovelace",
		Skills:  []types.SkillRecord{{Name: "python", Level: types.LevelAdvanced}},
		Summary: "Backend engineer with analytics background.",
	}
	job := &types.JobProfile{
		Role:           "Data Engineer",
		Company:        "Acme Corp",
		Location:       "Remote",
		Summary:        "Build data pipelines.",
		RequiredSkills: []types.SkillRecord{{Name: "python", Level: types.LevelAdvanced}},
	}
	gaps := []types.SkillGap{
		{Name: "docker", CurrentLevel: types.LevelNone, RequiredLevel: types.LevelIntermediate, Severity: types.SeverityMedium},
	}

	report, err := AssembleReport(candidate, job, gaps, fixedClock)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14 09:26:53", report.Timestamp)
	assert.Equal(t, "Ada Lovelace", report.UserName)
	assert.Equal(t, "Acme Corp", report.CompanyName)
	assert.Equal(t, "Data Engineer", report.JobRole)
	assert.Equal(t, "Remote", report.JobLocation)
	assert.Equal(t, gaps, report.SkillGaps)
}

func TestAssembleReport_NilInputs(t *testing.T) {
	job := &types.JobProfile{Role: "SRE"}
	candidate := &types.CandidateProfile{Name: "x"}

	_, err := AssembleReport(nil, job, nil, fixedClock)
	assert.Error(t, err)

	_, err = AssembleReport(candidate, nil, nil, fixedClock)
	assert.Error(t, err)
}

func TestAssembleReport_NilGapsSerializeAsEmptyList(t *testing.T) {
	report, err := AssembleReport(&types.CandidateProfile{Name: "x"}, &types.JobProfile{Role: "y"}, nil, fixedClock)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skill_gaps":[]`)
}

// Serialize, deserialize and re-serialize: the persisted shape must be
// byte-stable with a fixed clock.
func TestReport_RoundTrip(t *testing.T) {
	candidate := &types.CandidateProfile{
		Name: "Ada Lovelace",
		Skills: []types.SkillRecord{
			{Name: "python", Level: types.LevelAdvanced},
			{Name: "sql", Level: types.LevelIntermediate},
		},
		Summary: "Backend engineer.",
	}
	job := &types.JobProfile{
		Role:    "Data Engineer",
		Company: "Acme Corp",
		RequiredSkills: []types.SkillRecord{
			{Name: "python", Level: types.LevelAdvanced},
			{Name: "docker", Level: types.LevelIntermediate},
		},
	}
	gaps, err := NewGapAnalyzer(DefaultSeverityScale()).ComputeGaps(candidate.Skills, job.RequiredSkills)
	require.NoError(t, err)

	report, err := AssembleReport(candidate, job, gaps, fixedClock)
	require.NoError(t, err)

	first, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded types.AnalysisReport
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(&decoded)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestReport_SerializedFieldContract(t *testing.T) {
	report, err := AssembleReport(&types.CandidateProfile{Name: "x"}, &types.JobProfile{Role: "y"}, nil, fixedClock)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, field := range []string{
		"timestamp", "user_name", "user_skills", "user_profile_summary",
		"job_role", "job_location", "company_name", "description_summary",
		"required_skills", "skill_gaps",
	} {
		assert.Contains(t, raw, field)
	}
}
