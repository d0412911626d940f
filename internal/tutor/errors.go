package tutor

import "errors"

var (
	// ErrTurnInFlight means a turn for this session is already being
	// processed. The caller retries after the current turn completes.
	ErrTurnInFlight = errors.New("a turn is already in flight for this session")

	// ErrSessionEnded means the session was ended and accepts no more turns.
	ErrSessionEnded = errors.New("session has ended")

	// ErrEmptyUtterance means the student message was empty after trimming.
	ErrEmptyUtterance = errors.New("message is empty")
)
