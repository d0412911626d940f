//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ReportTimeFormat is the timestamp layout used in persisted reports and
// session files. Field names and this layout are the serialization contract
// other tools rely on.
const ReportTimeFormat = "2006-01-02 15:04:05"

// SkillRecord is a single skill with a proficiency level. Name is expected
// to be canonical (trimmed, lower-cased, whitespace-collapsed) once it has
// passed through skills.Normalize.
type SkillRecord struct {
	Name  string           `json:"skill_name"`
	Level ProficiencyLevel `json:"proficiency_level"`
}

// SkillGap describes one skill where the candidate falls short of the
// required proficiency.
type SkillGap struct {
	Name          string           `json:"skill_name"`
	CurrentLevel  ProficiencyLevel `json:"current_level"`
	RequiredLevel ProficiencyLevel `json:"required_level"`
	Severity      Severity         `json:"gap_severity"`
}

// CandidateProfile is the structured information extracted from a CV.
// Immutable once created.
type CandidateProfile struct {
	Name    string        `json:"user_name"`
	Skills  []SkillRecord `json:"skills"`
	Summary string        `json:"profile_summary"`
}

// JobProfile is the structured information extracted from a job posting.
// Immutable once created.
type JobProfile struct {
	Role           string        `json:"job_role"`
	Company        string        `json:"company_name"`
	Location       string        `json:"job_location"`
	Summary        string        `json:"description_summary"`
	RequiredSkills []SkillRecord `json:"required_skills"`
}

// AnalysisReport is the unit exported across the system boundary: one
// candidate analyzed against one job posting.
type AnalysisReport struct {
	Timestamp      string        `json:"timestamp"`
	UserName       string        `json:"user_name"`
	UserSkills     []SkillRecord `json:"user_skills"`
	ProfileSummary string        `json:"user_profile_summary"`
	JobRole        string        `json:"job_role"`
	JobLocation    string        `json:"job_location"`
	CompanyName    string        `json:"company_name"`
	Summary        string        `json:"description_summary"`
	RequiredSkills []SkillRecord `json:"required_skills"`
	SkillGaps      []SkillGap    `json:"skill_gaps"`
}

// ParsedTimestamp returns the report timestamp as a time.Time.
func (r *AnalysisReport) ParsedTimestamp() (time.Time, error) {
	return time.Parse(ReportTimeFormat, r.Timestamp)
}
