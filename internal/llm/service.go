package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/ribara/skillbridge/internal/logger"
	"github.com/ribara/skillbridge/internal/types"
)

// SchemaDescriptor declares the structured output contract for a completion
// call: a name for error reporting and a JSON Schema document the raw model
// output must satisfy.
type SchemaDescriptor struct {
	Name   string
	Schema string
}

// Message is one turn handed to CompleteFreeform.
type Message struct {
	Role types.Role
	Text string
}

// Service is the structured completion boundary. It owns retry of transient
// failures and schema validation of structured output. Schema violations are
// surfaced, never retried here.
type Service struct {
	client     Client
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

// NewService wraps a Client with retry and schema validation.
func NewService(client Client, cfg *Config, log *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		client:     client,
		maxRetries: cfg.MaxRetries,
		backoff:    500 * time.Millisecond,
		log:        log,
	}
}

// Complete runs one structured extraction: prompt in, JSON out, validated
// against the descriptor's schema and unmarshaled into out. Transient
// service failures are retried with backoff up to the configured bound.
func (s *Service) Complete(ctx context.Context, prompt string, schema SchemaDescriptor, out any) error {
	raw, err := s.generateWithRetry(ctx, func() (string, error) {
		return s.client.GenerateJSON(ctx, prompt, TierStandard)
	})
	if err != nil {
		return err
	}
	s.log.Debug("structured completion",
		zap.String("schema", schema.Name),
		zap.String("output", logger.Truncate(raw, 300)))

	if err := validateAgainstSchema(schema, raw); err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &MalformedOutputError{Schema: schema.Name, Cause: err}
	}
	return nil
}

// CompleteFreeform runs one conversational completion over an ordered
// message sequence and returns the raw reply text.
func (s *Service) CompleteFreeform(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to complete")
	}

	prompt := flattenMessages(messages)
	return s.generateWithRetry(ctx, func() (string, error) {
		return s.client.GenerateContent(ctx, prompt, TierAdvanced)
	})
}

func (s *Service) generateWithRetry(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error
	attempts := 1 + s.maxRetries

	for i := 0; i < attempts; i++ {
		if i > 0 {
			s.log.Debug("retrying completion call", zap.Int("attempt", i+1))
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, ctx.Err())
			case <-time.After(s.backoff * time.Duration(1<<(i-1))):
			}
		}

		raw, err := call()
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !errors.Is(err, ErrServiceUnavailable) || ctx.Err() != nil {
			break
		}
	}

	return "", lastErr
}

// validateAgainstSchema checks the raw JSON against the declared schema and
// converts violations into MalformedOutputError.
func validateAgainstSchema(schema SchemaDescriptor, raw string) error {
	if schema.Schema == "" {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema.Schema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return &MalformedOutputError{Schema: schema.Name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return &MalformedOutputError{Schema: schema.Name, Issues: issues}
}

// flattenMessages renders a conversation as a single prompt. The tutor path
// keeps the system persona first and labels each following turn.
func flattenMessages(messages []Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			sb.WriteString(msg.Text)
			sb.WriteString("\n\n")
		case types.RoleUser:
			sb.WriteString("Student: ")
			sb.WriteString(msg.Text)
			sb.WriteString("\n")
		case types.RoleTutor:
			sb.WriteString("Tutor: ")
			sb.WriteString(msg.Text)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("Tutor:")
	return sb.String()
}
