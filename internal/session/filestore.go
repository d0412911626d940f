package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ribara/skillbridge/internal/types"
)

const sessionFileExt = ".json"

// FileStore keeps one JSON document per session under a directory.
// Saves go through a temp file, fsync and rename, so a crash mid-write
// leaves the previous version intact.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+sessionFileExt)
}

// validID rejects ids that could escape the session directory.
func validID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}
	if strings.ContainsAny(sessionID, `/\`) || sessionID != filepath.Base(sessionID) {
		return fmt.Errorf("session id %q contains path separators", sessionID)
	}
	return nil
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, sessionID string) (*types.TutorSessionState, error) {
	if err := validID(sessionID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session %s: %w", sessionID, err)
	}

	var state types.TutorSessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, state *types.TutorSessionState) error {
	if state == nil {
		return fmt.Errorf("session state is nil")
	}
	if err := state.Validate(); err != nil {
		return err
	}
	if err := validID(state.SessionID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.SessionID, err)
	}

	tmp, err := os.CreateTemp(s.dir, state.SessionID+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session %s: %w", state.SessionID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync session %s: %w", state.SessionID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session %s: %w", state.SessionID, err)
	}

	if err := os.Rename(tmpName, s.path(state.SessionID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit session %s: %w", state.SessionID, err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, sessionID string) error {
	if err := validID(sessionID); err != nil {
		return err
	}
	if err := os.Remove(s.path(sessionID)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// List implements Store. Temp files from interrupted saves are skipped.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, sessionFileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, sessionFileExt))
	}
	return ids, nil
}

// Close implements Store. The file store holds no open resources.
func (s *FileStore) Close() error { return nil }
