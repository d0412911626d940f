// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProficiencyLevel is an ordered competence scale. The zero value is
// LevelNone, meaning the skill is absent.
type ProficiencyLevel int

const (
	LevelNone ProficiencyLevel = iota
	LevelBeginner
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

var proficiencyNames = map[ProficiencyLevel]string{
	LevelNone:         "none",
	LevelBeginner:     "beginner",
	LevelIntermediate: "intermediate",
	LevelAdvanced:     "advanced",
	LevelExpert:       "expert",
}

var proficiencyValues = map[string]ProficiencyLevel{
	"none":         LevelNone,
	"beginner":     LevelBeginner,
	"intermediate": LevelIntermediate,
	"advanced":     LevelAdvanced,
	"expert":       LevelExpert,
}

// InvalidProficiencyError indicates a proficiency string outside the five
// / recognized levels. Matching is strict: trim and lower-case only, no fuzzy
// matching.
type InvalidProficiencyError struct {
	Raw string
}

func (e *InvalidProficiencyError) Error() string {
	return fmt.Sprintf("invalid proficiency level: %q", e.Raw)
}

// ParseProficiency parses a proficiency level from its textual form.
func ParseProficiency(raw string) (ProficiencyLevel, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	level, ok := proficiencyValues[cleaned]
	if !ok {
		return LevelNone, &InvalidProficiencyError{Raw: raw}
	}
	return level, nil
}

// String returns the canonical lower-case name of the level.
func (p ProficiencyLevel) String() string {
	if name, ok := proficiencyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("proficiency(%d)", int(p))
}

// Compare returns -1, 0 or 1 as p is below, equal to or above other.
func (p ProficiencyLevel) Compare(other ProficiencyLevel) int {
	switch {
	case p < other:
		return -1
	case p > other:
		return 1
	default:
		return 0
	}
}

// DistanceTo returns how many levels separate p from required. Negative
// means p already exceeds required.
func (p ProficiencyLevel) DistanceTo(required ProficiencyLevel) int {
	return int(required) - int(p)
}

// MarshalJSON serializes the level as its canonical name.
func (p ProficiencyLevel) MarshalJSON() ([]byte, error) {
	name, ok := proficiencyNames[p]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown proficiency %d", int(p))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses the level from its canonical name.
func (p *ProficiencyLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	level, err := ParseProficiency(raw)
	if err != nil {
		return err
	}
	*p = level
	return nil
}
