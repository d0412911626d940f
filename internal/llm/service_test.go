package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribara/skillbridge/internal/types"
)

// fakeClient scripts responses per call.
type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeClient) next(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp string
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	return f.next(prompt)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	return f.next(prompt)
}

func (f *fakeClient) Close() error { return nil }

func newTestService(client Client) *Service {
	svc := NewService(client, &Config{MaxRetries: 2}, nil)
	svc.backoff = time.Millisecond
	return svc
}

const personSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func TestComplete_ValidOutput(t *testing.T) {
	client := &fakeClient{responses: []string{`{"name": "Ada"}`}}
	svc := newTestService(client)

	var out struct {
		Name string `json:"name"`
	}
	err := svc.Complete(context.Background(), "extract", SchemaDescriptor{Name: "person", Schema: personSchema}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.Name)
}

func TestComplete_SchemaViolation(t *testing.T) {
	client := &fakeClient{responses: []string{`{"age": 42}`}}
	svc := newTestService(client)

	var out map[string]any
	err := svc.Complete(context.Background(), "extract", SchemaDescriptor{Name: "person", Schema: personSchema}, &out)
	require.Error(t, err)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "person", malformed.Schema)
	assert.Equal(t, 1, client.calls, "schema violations must not be retried")
}

func TestComplete_RetriesTransientFailures(t *testing.T) {
	client := &fakeClient{
		errs:      []error{fmt.Errorf("%w: timeout", ErrServiceUnavailable), nil},
		responses: []string{"", `{"name": "Ada"}`},
	}
	svc := newTestService(client)

	var out map[string]any
	err := svc.Complete(context.Background(), "extract", SchemaDescriptor{Name: "person", Schema: personSchema}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestComplete_RetriesExhausted(t *testing.T) {
	transient := fmt.Errorf("%w: down", ErrServiceUnavailable)
	client := &fakeClient{errs: []error{transient, transient, transient}}
	svc := newTestService(client)

	var out map[string]any
	err := svc.Complete(context.Background(), "extract", SchemaDescriptor{Name: "person"}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.Equal(t, 3, client.calls, "1 attempt + 2 retries")
}

func TestCompleteFreeform(t *testing.T) {
	client := &fakeClient{responses: []string{"Good question."}}
	svc := newTestService(client)

	reply, err := svc.CompleteFreeform(context.Background(), []Message{
		{Role: types.RoleSystem, Text: "You are a tutor."},
		{Role: types.RoleUser, Text: "What is Docker?"},
		{Role: types.RoleTutor, Text: "A container runtime."},
		{Role: types.RoleUser, Text: "And an image?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Good question.", reply)

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "You are a tutor.")
	assert.Contains(t, prompt, "Student: What is Docker?")
	assert.Contains(t, prompt, "Tutor: A container runtime.")
}

func TestCompleteFreeform_EmptyMessages(t *testing.T) {
	svc := newTestService(&fakeClient{})
	_, err := svc.CompleteFreeform(context.Background(), nil)
	assert.Error(t, err)
}
