package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"mcp-gateway/internal/agent"
	"mcp-gateway/internal/config"
	"mcp-gateway/internal/eventbus"
	"mcp-gateway/internal/llm"
)

// RunnerFactory constructs the agent capability for one provider/model
// binding. Injected so tests can count constructions.
type RunnerFactory func(ctx context.Context, provider, model string) (agent.Runner, error)

// NewRunnerFactory returns the production factory: resolve the provider
// variant via the llm factory and wrap it in an agent loop over the given
// tool session.
func NewRunnerFactory(cfg *config.Config, tools agent.ToolInvoker) RunnerFactory {
	return func(_ context.Context, provider, model string) (agent.Runner, error) {
		pc := cfg.Providers[provider]
		pc.Model = model
		p, err := llm.NewProvider(provider, pc, llm.ResolveAPIKey(provider, pc))
		if err != nil {
			return nil, err
		}
		return agent.New(p, tools, cfg.Generation), nil
	}
}

// Binding is the session's current provider/model/runner triple.
type Binding struct {
	Provider string
	Model    string
	Runner   agent.Runner
}

// Session owns the currently bound agent runtime. It is shared mutable
// state: rebinds are atomic with respect to concurrent Ensure calls.
type Session struct {
	mu      sync.Mutex
	cfg     *config.Config
	factory RunnerFactory
	bus     *eventbus.Bus

	binding     Binding
	initialized bool
}

// NewSession creates an unbound session.
func NewSession(cfg *config.Config, factory RunnerFactory, bus *eventbus.Bus) *Session {
	return &Session{cfg: cfg, factory: factory, bus: bus}
}

// Ensure makes sure a live binding exists and returns it. A rebind happens
// when the session is unbound, or whenever the request explicitly names a
// provider (even the currently bound one). When already bound and no
// provider is named, the existing binding is reused even if the requested
// model differs from the bound model; callers that need a specific model
// must name the provider too.
//
// A failed rebind leaves the session unbound and returns a
// ConfigurationError; the caller must not proceed to query.
func (s *Session) Ensure(ctx context.Context, provider, model string) (Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized && provider == "" {
		return s.binding, nil
	}

	effProvider := provider
	if effProvider == "" {
		effProvider = s.cfg.DefaultProvider
	}

	pc, ok := s.cfg.Providers[effProvider]
	if !ok {
		s.unbind()
		return Binding{}, &ConfigurationError{Reason: fmt.Sprintf("provider %s not configured", effProvider)}
	}

	effModel := model
	if effModel == "" {
		effModel = pc.Model
	}

	if llm.ResolveAPIKey(effProvider, pc) == "" {
		s.unbind()
		return Binding{}, &ConfigurationError{Reason: fmt.Sprintf("no API key for provider %s", effProvider)}
	}

	runner, err := s.factory(ctx, effProvider, effModel)
	if err != nil {
		s.unbind()
		return Binding{}, &ConfigurationError{
			Reason: fmt.Sprintf("initializing agent for provider %s", effProvider),
			Err:    err,
		}
	}

	s.binding = Binding{Provider: effProvider, Model: effModel, Runner: runner}
	s.initialized = true

	log.Info("agent session bound", "provider", effProvider, "model", effModel)
	if s.bus != nil {
		s.bus.Publish(eventbus.TopicSessionRebound, s.binding.Provider+"/"+s.binding.Model)
	}
	return s.binding, nil
}

// Initialized reports whether a live binding exists.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Session) unbind() {
	s.binding = Binding{}
	s.initialized = false
}
