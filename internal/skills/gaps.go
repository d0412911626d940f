package skills

import (
	"fmt"

	"github.com/ribara/skillbridge/internal/types"
)

// SeverityScale maps gap distance (required minus current, in levels) to a
// severity bucket. The thresholds are policy, not physics, so they travel
// with the analyzer instead of being hard-coded in the gap loop.
type SeverityScale struct {
	// Buckets[d] is the severity for a positive distance d. Distances past
	// the end of the slice use the last bucket.
	Buckets []types.Severity
}

// DefaultSeverityScale maps distance 1..4 to low/medium/high/critical.
func DefaultSeverityScale() SeverityScale {
	return SeverityScale{
		Buckets: []types.Severity{
			types.SeverityLow,
			types.SeverityMedium,
			types.SeverityHigh,
			types.SeverityCritical,
		},
	}
}

// For returns the severity for a gap distance. Callers must not ask about
// distance <= 0: that is the no-gap case and has no severity.
func (s SeverityScale) For(distance int) (types.Severity, error) {
	if distance <= 0 {
		return 0, fmt.Errorf("no severity for non-positive gap distance %d", distance)
	}
	if len(s.Buckets) == 0 {
		return 0, fmt.Errorf("severity scale has no buckets")
	}
	if distance > len(s.Buckets) {
		return s.Buckets[len(s.Buckets)-1], nil
	}
	return s.Buckets[distance-1], nil
}

// GapAnalyzer computes skill gaps between candidate and required skill
// lists. It is a pure function of its inputs: no I/O, deterministic output.
type GapAnalyzer struct {
	scale SeverityScale
}

// NewGapAnalyzer creates an analyzer with the given severity scale.
func NewGapAnalyzer(scale SeverityScale) *GapAnalyzer {
	return &GapAnalyzer{scale: scale}
}

// ComputeGaps emits one gap per required skill the candidate does not meet,
// preserving the order of required. A required skill absent from candidate
// counts as LevelNone. Skills the candidate meets or exceeds produce no
// entry, and candidate-only skills are never reported.
func (g *GapAnalyzer) ComputeGaps(candidate, required []types.SkillRecord) ([]types.SkillGap, error) {
	current := make(map[string]types.ProficiencyLevel, len(candidate))
	for _, rec := range MergeRecords(candidate) {
		current[rec.Name] = rec.Level
	}

	gaps := make([]types.SkillGap, 0)
	for _, req := range MergeRecords(required) {
		have := current[req.Name] // absent -> LevelNone
		distance := have.DistanceTo(req.Level)
		if distance <= 0 {
			continue
		}
		severity, err := g.scale.For(distance)
		if err != nil {
			return nil, fmt.Errorf("skill %q: %w", req.Name, err)
		}
		gaps = append(gaps, types.SkillGap{
			Name:          req.Name,
			CurrentLevel:  have,
			RequiredLevel: req.Level,
			Severity:      severity,
		})
	}
	return gaps, nil
}
