package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribara/skillbridge/internal/types"
)

func sampleState(id string) *types.TutorSessionState {
	return &types.TutorSessionState{
		SessionID:      id,
		Timestamp:      "2026-03-14 09:26:53",
		UserName:       "Dana",
		JobRole:        "Platform Engineer",
		JobProficiency: types.LevelAdvanced,
		FocusSkill:     "kubernetes",
		TargetLevel:    types.LevelAdvanced,
		TurnCount:      3,
		Phase:          types.PhaseActive,
		ChatHistory: []types.ChatMessage{
			{Role: types.RoleUser, Message: "hi", Timestamp: "2026-03-14 09:27:00"},
			{Role: types.RoleTutor, Message: "hello", Timestamp: "2026-03-14 09:27:02"},
		},
		LastUpdatedAt: "2026-03-14 09:27:02",
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := sampleState("abc-123")
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreLoadUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileStoreSaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := sampleState("abc-123")
	require.NoError(t, store.Save(ctx, state))

	state.TurnCount = 4
	state.ChatHistory = append(state.ChatHistory,
		types.ChatMessage{Role: types.RoleUser, Message: "more", Timestamp: "2026-03-14 09:28:00"})
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, 4, got.TurnCount)
	assert.Len(t, got.ChatHistory, 3)
}

func TestFileStoreAbortedWriteLeavesCommittedState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := sampleState("abc-123")
	require.NoError(t, store.Save(ctx, want))

	// A crash mid-save leaves a stray temp file next to the committed one.
	stray := filepath.Join(store.dir, "abc-123.tmp-99999")
	require.NoError(t, os.WriteFile(stray, []byte(`{"session_id": "abc-1`), 0o644))

	got, err := store.Load(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc-123"}, ids)
}

func TestFileStoreRejectsPathEscapingIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "../etc/passwd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	bad := sampleState("../sneaky")
	assert.Error(t, store.Save(ctx, bad))
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState("abc-123")))
	require.NoError(t, store.Delete(ctx, "abc-123"))

	_, err := store.Load(ctx, "abc-123")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "abc-123"), ErrSessionNotFound)
}

func TestFileStoreList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Save(ctx, sampleState("a")))
	require.NoError(t, store.Save(ctx, sampleState("b")))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "bad.json"), []byte("{not json"), 0o644))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
