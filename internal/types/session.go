//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Role identifies the speaker of a chat message. It is fixed at
// construction time, never inferred from message shape later.
type Role string

const (
	RoleUser   Role = "user"
	RoleTutor  Role = "tutor"
	RoleSystem Role = "system"
)

// Valid reports whether the role is one of the three recognized speakers.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTutor, RoleSystem:
		return true
	default:
		return false
	}
}

// ChatMessage is one utterance in a tutoring transcript.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SessionPhase tracks where a tutoring session is in its lifecycle.
type SessionPhase string

const (
	PhaseUninitialized SessionPhase = "uninitialized"
	PhaseIntroduced    SessionPhase = "introduced"
	PhaseActive        SessionPhase = "active"
	PhaseEnded         SessionPhase = "ended"
)

// TutorSessionState is the durable record of one tutoring session: one
// learner working on one focus skill. The json field names (and the
// chat_history element shape) are the persistence contract.
type TutorSessionState struct {
	SessionID      string           `json:"session_id"`
	Timestamp      string           `json:"timestamp"` // session start
	UserName       string           `json:"user_name"`
	JobRole        string           `json:"job_role"`
	JobProficiency ProficiencyLevel `json:"job_proficiency"`
	FocusSkill     string           `json:"teaching_skill"`
	TargetLevel    ProficiencyLevel `json:"teaching_proficiency"`
	TurnCount      int              `json:"turn_count"`
	Phase          SessionPhase     `json:"phase"`
	ChatHistory    []ChatMessage    `json:"chat_history"`
	LastUpdatedAt  string           `json:"last_updated_at"`
}

// Validate checks the structural invariants of a session record.
func (s *TutorSessionState) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if s.FocusSkill == "" {
		return fmt.Errorf("teaching_skill is required")
	}
	if s.TurnCount < 0 {
		return fmt.Errorf("turn_count must be >= 0, got %d", s.TurnCount)
	}
	for i, msg := range s.ChatHistory {
		if !msg.Role.Valid() {
			return fmt.Errorf("chat_history[%d]: unknown role %q", i, msg.Role)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can snapshot state before a turn and
// restore it if the turn fails.
func (s *TutorSessionState) Clone() *TutorSessionState {
	out := *s
	out.ChatHistory = make([]ChatMessage, len(s.ChatHistory))
	copy(out.ChatHistory, s.ChatHistory)
	return &out
}
