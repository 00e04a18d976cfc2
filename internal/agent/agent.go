// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent wraps language-model backends behind a single role-based
// invocation contract.
//
// One call to Invoke is exactly one model request: the agent performs zero
// retries, holds no state between invocations, and reports failures through
// a typed error the orchestrator turns into fallback policy.
package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/internal/roles"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// FailureKind classifies why a backend call failed.
type FailureKind string

const (
	// Overloaded means the upstream service signalled exhausted capacity
	// (rate limiting or overload).
	Overloaded FailureKind = "overloaded"

	// Timeout means no response arrived within the per-call deadline.
	Timeout FailureKind = "timeout"

	// Upstream means any other malformed or erroneous upstream response.
	Upstream FailureKind = "upstream_error"
)

// BackendError is a failed model call. The orchestrator inspects Kind to
// choose a fallback; Message never reaches end users.
type BackendError struct {
	Kind    FailureKind
	Backend string
	Message string
}

// Error returns a short description for logs.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Backend, e.Kind, e.Message)
}

// Backend generates one completion from a language-model service. Each
// provider dialect (OpenAI-compatible, Gemini) implements this interface per
// the Strategy pattern.
type Backend interface {
	Name() string
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// binding ties one role to its backend and prompt spec. Resolved once at
// construction; no runtime lookup by type.
type binding struct {
	backend Backend
	spec    roles.Spec
}

// Agent invokes a role's configured backend with the role's fixed prompts.
// Safe for concurrent use: all fields are read-only after New.
type Agent struct {
	bindings map[roles.Role]binding
	timeout  time.Duration
	logger   *zap.Logger
}

// New builds the role-to-backend table from cfg. A missing API key or an
// unknown provider is a configuration error: it fails here, at process
// start, never per-request.
func New(cfg types.AgentConfig, logger *zap.Logger) (*Agent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := httputil.NewClient(timeout)

	assignments := map[roles.Role]types.ModelConfig{
		roles.QueryRefiner: cfg.QueryRefiner,
		roles.Researcher:   cfg.Researcher,
		roles.Validator:    cfg.Validator,
	}

	bindings := make(map[roles.Role]binding, len(assignments))
	for role, mc := range assignments {
		backend, err := newBackend(mc, client)
		if err != nil {
			return nil, fmt.Errorf("configuring %s backend: %w", role, err)
		}
		bindings[role] = binding{backend: backend, spec: roles.For(role)}
	}

	return &Agent{bindings: bindings, timeout: timeout, logger: logger}, nil
}

// newBackend constructs the backend for one model assignment.
func newBackend(mc types.ModelConfig, client *http.Client) (Backend, error) {
	if mc.APIKey == "" {
		return nil, fmt.Errorf("provider %s: missing API key", mc.Provider)
	}
	if mc.Model == "" {
		return nil, fmt.Errorf("provider %s: missing model name", mc.Provider)
	}
	maxTokens := mc.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	switch mc.Provider {
	case types.ProviderOpenAI:
		return &ChatBackend{
			name:        "openai",
			BaseURL:     openAIChatBase,
			APIKey:      mc.APIKey,
			Model:       mc.Model,
			MaxTokens:   maxTokens,
			Temperature: mc.Temperature,
			Client:      client,
		}, nil
	case types.ProviderDeepSeek:
		return &ChatBackend{
			name:        "deepseek",
			BaseURL:     deepSeekChatBase,
			APIKey:      mc.APIKey,
			Model:       mc.Model,
			MaxTokens:   maxTokens,
			Temperature: mc.Temperature,
			Client:      client,
		}, nil
	case types.ProviderGemini:
		return &GeminiBackend{
			APIKey:      mc.APIKey,
			Model:       mc.Model,
			MaxTokens:   maxTokens,
			Temperature: mc.Temperature,
			Client:      client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", mc.Provider)
	}
}

// Invoke renders the role's user prompt over fields and performs exactly one
// backend call bounded by the agent timeout. On success it returns the
// model's trimmed text; on failure a *BackendError.
func (a *Agent) Invoke(ctx context.Context, role roles.Role, fields map[string]string) (string, error) {
	b, ok := a.bindings[role]
	if !ok {
		// Bindings cover the closed role set; reaching here is a bug.
		panic("agent: no backend bound for role " + string(role))
	}

	var prompt bytes.Buffer
	if err := b.spec.User.Execute(&prompt, fields); err != nil {
		return "", &BackendError{Kind: Upstream, Backend: b.backend.Name(),
			Message: fmt.Sprintf("rendering prompt: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	text, err := b.backend.Generate(ctx, b.spec.System, prompt.String())
	if err != nil {
		berr := classify(b.backend.Name(), err)
		a.logger.Warn("model call failed",
			zap.String("role", string(role)),
			zap.String("backend", b.backend.Name()),
			zap.String("kind", string(berr.Kind)),
			zap.Duration("elapsed", time.Since(start)))
		return "", berr
	}

	a.logger.Debug("model call completed",
		zap.String("role", string(role)),
		zap.String("backend", b.backend.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(text), nil
}

// classify maps a raw backend failure onto the taxonomy. HTTP 429 and 503
// are capacity signals for every configured provider; deadline and net
// timeouts map to Timeout; everything else is an upstream error.
func classify(backend string, err error) *BackendError {
	var berr *BackendError
	if errors.As(err, &berr) {
		return berr
	}
	if httputil.IsTimeout(err) {
		return &BackendError{Kind: Timeout, Backend: backend, Message: err.Error()}
	}
	switch httputil.StatusCode(err) {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return &BackendError{Kind: Overloaded, Backend: backend, Message: err.Error()}
	}
	return &BackendError{Kind: Upstream, Backend: backend, Message: err.Error()}
}

// statusError wraps a non-200 response so classify can read the code.
func statusError(backend string, code int) error {
	return fmt.Errorf("%s API: %w", backend, &httputil.StatusError{Code: code})
}
