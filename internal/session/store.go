// Package session persists tutoring session state. Two backends are
// provided: a file store writing one JSON document per session, and a
// Postgres store for deployments that already run a database.
package session

import (
	"context"
	"errors"

	"github.com/ribara/skillbridge/internal/types"
)

// ErrSessionNotFound is returned by Load and Delete for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Store is the persistence contract for tutoring sessions. Save must be
// atomic: a reader never observes a partially written session.
type Store interface {
	// Load retrieves a session by id. Returns ErrSessionNotFound when the
	// id has never been saved or has been deleted.
	Load(ctx context.Context, sessionID string) (*types.TutorSessionState, error)
	// Save writes the full session state, replacing any previous version.
	Save(ctx context.Context, state *types.TutorSessionState) error
	// Delete removes a session. Returns ErrSessionNotFound for unknown ids.
	Delete(ctx context.Context, sessionID string) error
	// List returns the ids of all persisted sessions.
	List(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}
