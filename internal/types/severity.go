//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity categorizes how far a candidate is from a required proficiency.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

var severityValues = map[string]Severity{
	"low":      SeverityLow,
	"medium":   SeverityMedium,
	"high":     SeverityHigh,
	"critical": SeverityCritical,
}

// ParseSeverity parses a severity from its textual form.
func ParseSeverity(raw string) (Severity, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	sev, ok := severityValues[cleaned]
	if !ok {
		return 0, fmt.Errorf("invalid gap severity: %q", raw)
	}
	return sev, nil
}

// String returns the canonical lower-case name of the severity.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalJSON serializes the severity as its canonical name.
func (s Severity) MarshalJSON() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown severity %d", int(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses the severity from its canonical name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
