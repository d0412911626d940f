// Package skills implements skill canonicalization, deduplication and
// gap computation between a candidate's skills and a job's requirements.
package skills

import (
	"fmt"
	"strings"

	"github.com/ribara/skillbridge/internal/types"
)

// skillSynonyms folds common variant spellings into one canonical key so the
// candidate and requirement lists join on the same name. Keys and values are
// already in canonical (lower-case) form.
var skillSynonyms = map[string]string{
	"golang":              "go",
	"go lang":             "go",
	"js":                  "javascript",
	"ts":                  "typescript",
	"k8s":                 "kubernetes",
	"react.js":            "react",
	"reactjs":             "react",
	"vue.js":              "vue",
	"vuejs":               "vue",
	"nodejs":              "node.js",
	"node js":             "node.js",
	"postgres":            "postgresql",
	"ml":                  "machine learning",
	"ci / cd":             "ci/cd",
	"gcp":                 "google cloud",
	"amazon web services": "aws",
}

// CanonicalName returns the canonical form of a skill name: trimmed,
// lower-cased, internal whitespace collapsed, synonyms folded. Returns ""
// for names that are empty after cleanup.
func CanonicalName(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if canonical, ok := skillSynonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Normalize builds a SkillRecord from raw extracted name and level text.
// An unrecognized level propagates as *types.InvalidProficiencyError rather
// than defaulting silently; an empty canonical name is rejected.
func Normalize(rawName, rawLevel string) (types.SkillRecord, error) {
	name := CanonicalName(rawName)
	if name == "" {
		return types.SkillRecord{}, fmt.Errorf("skill name is empty after normalization (raw %q)", rawName)
	}
	level, err := types.ParseProficiency(rawLevel)
	if err != nil {
		return types.SkillRecord{}, fmt.Errorf("skill %q: %w", name, err)
	}
	return types.SkillRecord{Name: name, Level: level}, nil
}

// MergeRecords deduplicates a list by canonical name, keeping first-seen
// order. When the same name appears twice the higher proficiency wins; this
// single policy covers both candidate self-reports and duplicate requirement
// extractions.
func MergeRecords(records []types.SkillRecord) []types.SkillRecord {
	if len(records) == 0 {
		return records
	}

	merged := make([]types.SkillRecord, 0, len(records))
	seen := make(map[string]int) // canonical name -> index in merged

	for _, rec := range records {
		name := CanonicalName(rec.Name)
		if name == "" {
			continue
		}
		if idx, ok := seen[name]; ok {
			if rec.Level > merged[idx].Level {
				merged[idx].Level = rec.Level
			}
			continue
		}
		merged = append(merged, types.SkillRecord{Name: name, Level: rec.Level})
		seen[name] = len(merged) - 1
	}

	return merged
}
