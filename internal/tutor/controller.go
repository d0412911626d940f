// Package tutor drives tutoring sessions: one learner, one focus
// skill, a strict-but-helpful persona, and periodic refreshes of web
// context woven into the system prompt.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ribara/skillbridge/internal/llm"
	"github.com/ribara/skillbridge/internal/prompts"
	"github.com/ribara/skillbridge/internal/session"
	"github.com/ribara/skillbridge/internal/types"
	"github.com/ribara/skillbridge/internal/webctx"
)

const promptsFile = "tutor.json"

// DefaultRefreshInterval is how many completed turns pass between web
// context refreshes.
const DefaultRefreshInterval = 5

// StartParams describes the learner and the skill to teach. Usually
// filled from one entry of an analysis report's skill gaps.
type StartParams struct {
	UserName       string
	JobRole        string
	JobProficiency types.ProficiencyLevel
	FocusSkill     string
	TargetLevel    types.ProficiencyLevel
}

func (p StartParams) validate() error {
	if strings.TrimSpace(p.FocusSkill) == "" {
		return fmt.Errorf("focus skill is required")
	}
	if strings.TrimSpace(p.UserName) == "" {
		return fmt.Errorf("user name is required")
	}
	return nil
}

// Controller runs the tutoring state machine over a session store.
// At most one turn per session is processed at a time; concurrent
// turns are rejected with ErrTurnInFlight, never queued.
type Controller struct {
	svc             *llm.Service
	store           session.Store
	web             webctx.Provider
	refreshInterval int
	now             func() time.Time
	log             *zap.Logger

	mu       sync.Mutex
	inFlight map[string]bool
	contexts map[string]string // session id -> current web context snippet
}

// NewController wires the tutoring controller. A nil clock gets
// time.Now; a refresh interval below 1 gets the default.
func NewController(svc *llm.Service, store session.Store, web webctx.Provider, refreshInterval int, now func() time.Time, log *zap.Logger) *Controller {
	if refreshInterval < 1 {
		refreshInterval = DefaultRefreshInterval
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		svc:             svc,
		store:           store,
		web:             web,
		refreshInterval: refreshInterval,
		now:             now,
		log:             log,
		inFlight:        make(map[string]bool),
		contexts:        make(map[string]string),
	}
}

// StartSession creates a session and runs the introduction turn: the
// tutor speaks first, no student utterance is consumed, and turn_count
// stays zero. Nothing is persisted when the introduction fails.
func (c *Controller) StartSession(ctx context.Context, params StartParams) (*types.TutorSessionState, string, error) {
	if err := params.validate(); err != nil {
		return nil, "", err
	}

	webContext := c.fetchContext(ctx, params.FocusSkill)
	stamp := c.now().Format(types.ReportTimeFormat)

	state := &types.TutorSessionState{
		SessionID:      uuid.NewString(),
		Timestamp:      stamp,
		UserName:       params.UserName,
		JobRole:        params.JobRole,
		JobProficiency: params.JobProficiency,
		FocusSkill:     params.FocusSkill,
		TargetLevel:    params.TargetLevel,
		TurnCount:      0,
		Phase:          types.PhaseUninitialized,
		ChatHistory:    []types.ChatMessage{},
		LastUpdatedAt:  stamp,
	}

	messages := []llm.Message{
		{Role: types.RoleSystem, Text: c.systemPrompt(state, webContext)},
		{Role: types.RoleUser, Text: prompts.Format(prompts.MustGet(promptsFile, "intro-request"), map[string]string{
			"FocusSkill": state.FocusSkill,
		})},
	}

	reply, err := c.svc.CompleteFreeform(ctx, messages)
	if err != nil {
		return nil, "", fmt.Errorf("introduction turn: %w", err)
	}

	state.Phase = types.PhaseIntroduced
	state.ChatHistory = append(state.ChatHistory, types.ChatMessage{
		Role:      types.RoleTutor,
		Message:   reply,
		Timestamp: c.now().Format(types.ReportTimeFormat),
	})

	if err := c.store.Save(ctx, state); err != nil {
		return nil, "", fmt.Errorf("persist session: %w", err)
	}

	c.mu.Lock()
	c.contexts[state.SessionID] = webContext
	c.mu.Unlock()

	c.log.Info("tutoring session started",
		zap.String("session_id", state.SessionID),
		zap.String("skill", state.FocusSkill),
		zap.String("target_level", state.TargetLevel.String()))

	return state, reply, nil
}

// HandleTurn processes one student utterance. On any failure the
// persisted state is exactly what it was before the call.
func (c *Controller) HandleTurn(ctx context.Context, sessionID, utterance string) (string, *types.TutorSessionState, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return "", nil, ErrEmptyUtterance
	}

	if !c.acquire(sessionID) {
		return "", nil, ErrTurnInFlight
	}
	defer c.release(sessionID)

	state, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	if state.Phase == types.PhaseEnded {
		return "", nil, ErrSessionEnded
	}

	webContext := c.contextForTurn(ctx, state)

	messages := make([]llm.Message, 0, len(state.ChatHistory)+2)
	messages = append(messages, llm.Message{Role: types.RoleSystem, Text: c.systemPrompt(state, webContext)})
	for _, msg := range state.ChatHistory {
		messages = append(messages, llm.Message{Role: msg.Role, Text: msg.Message})
	}
	messages = append(messages, llm.Message{Role: types.RoleUser, Text: utterance})

	reply, err := c.svc.CompleteFreeform(ctx, messages)
	if err != nil {
		return "", nil, fmt.Errorf("tutor turn: %w", err)
	}

	next := state.Clone()
	stamp := c.now().Format(types.ReportTimeFormat)
	next.ChatHistory = append(next.ChatHistory,
		types.ChatMessage{Role: types.RoleUser, Message: utterance, Timestamp: stamp},
		types.ChatMessage{Role: types.RoleTutor, Message: reply, Timestamp: stamp},
	)
	next.TurnCount++
	next.Phase = types.PhaseActive
	next.LastUpdatedAt = stamp

	if err := c.store.Save(ctx, next); err != nil {
		return "", nil, fmt.Errorf("persist turn: %w", err)
	}
	return reply, next, nil
}

// EndSession marks the session ended. Ended sessions keep their
// transcript and reject further turns.
func (c *Controller) EndSession(ctx context.Context, sessionID string) error {
	if !c.acquire(sessionID) {
		return ErrTurnInFlight
	}
	defer c.release(sessionID)

	state, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if state.Phase == types.PhaseEnded {
		return nil
	}

	next := state.Clone()
	next.Phase = types.PhaseEnded
	next.LastUpdatedAt = c.now().Format(types.ReportTimeFormat)
	if err := c.store.Save(ctx, next); err != nil {
		return fmt.Errorf("persist session end: %w", err)
	}

	c.mu.Lock()
	delete(c.contexts, sessionID)
	c.mu.Unlock()

	c.log.Info("tutoring session ended", zap.String("session_id", sessionID))
	return nil
}

// History returns the persisted state for a session.
func (c *Controller) History(ctx context.Context, sessionID string) (*types.TutorSessionState, error) {
	return c.store.Load(ctx, sessionID)
}

// contextForTurn returns the web context to embed in this turn's
// system prompt, refreshing it every refreshInterval completed turns.
// The cache is in-memory only; after a restart the first turn fetches
// fresh context.
func (c *Controller) contextForTurn(ctx context.Context, state *types.TutorSessionState) string {
	c.mu.Lock()
	cached, ok := c.contexts[state.SessionID]
	c.mu.Unlock()

	due := state.TurnCount > 0 && state.TurnCount%c.refreshInterval == 0
	if ok && !due {
		return cached
	}

	if due {
		c.log.Debug("refreshing web context",
			zap.String("session_id", state.SessionID),
			zap.Int("turn_count", state.TurnCount))
	}
	fresh := c.fetchContext(ctx, state.FocusSkill)
	c.mu.Lock()
	c.contexts[state.SessionID] = fresh
	c.mu.Unlock()
	return fresh
}

// fetchContext queries the web provider. The provider is best-effort
// and never errors; a nil provider degrades to the sentinel.
func (c *Controller) fetchContext(ctx context.Context, skill string) string {
	if c.web == nil {
		return webctx.NoContext
	}
	return c.web.Search(ctx, skill)
}

func (c *Controller) systemPrompt(state *types.TutorSessionState, webContext string) string {
	persona := prompts.Format(prompts.MustGet(promptsFile, "persona"), map[string]string{
		"UserName":       state.UserName,
		"JobRole":        state.JobRole,
		"JobProficiency": state.JobProficiency.String(),
		"FocusSkill":     state.FocusSkill,
		"TargetLevel":    state.TargetLevel.String(),
	})
	contextBlock := prompts.Format(prompts.MustGet(promptsFile, "web-context"), map[string]string{
		"FocusSkill": state.FocusSkill,
		"Context":    webContext,
	})
	return persona + "\n\n" + contextBlock
}

func (c *Controller) acquire(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[sessionID] {
		return false
	}
	c.inFlight[sessionID] = true
	return true
}

func (c *Controller) release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, sessionID)
}
