package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"mcp-gateway/internal/config"
	"mcp-gateway/internal/eventbus"
	"mcp-gateway/internal/memory"
	"mcp-gateway/internal/prompt"
)

// QueryRequest carries one user query and its optional overrides.
type QueryRequest struct {
	Prompt       string
	UserID       string
	Provider     string
	Model        string
	MaxSteps     int
	SystemPrompt string
	PromptFile   string
	UseContext   bool
}

// QueryOutcome is the structured result of a successful query.
type QueryOutcome struct {
	Response        string
	Provider        string
	Model           string
	Steps           int
	Timestamp       time.Time
	ExecutionTime   time.Duration
	ConversationID  string
	ContextUsed     bool
	ContextMessages int
}

// Orchestrator runs the full query pipeline: session binding, context
// composition, agent invocation, and memory bookkeeping.
type Orchestrator struct {
	cfg      *config.Config
	store    *memory.Store
	composer *prompt.Composer
	session  *Session
	bus      *eventbus.Bus
}

// NewOrchestrator wires the query pipeline.
func NewOrchestrator(cfg *config.Config, store *memory.Store, composer *prompt.Composer, session *Session, bus *eventbus.Bus) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		composer: composer,
		session:  session,
		bus:      bus,
	}
}

// Query executes one request. The user's original prompt is recorded before
// the agent runs; a failed agent invocation therefore still leaves the
// question in history (at-least-once memory semantics), but never records
// an assistant reply for that turn.
func (o *Orchestrator) Query(ctx context.Context, req QueryRequest) (*QueryOutcome, error) {
	start := time.Now()

	userID := o.store.Normalize(req.UserID)
	o.publish(eventbus.TopicQueryStarted, userID)

	binding, err := o.session.Ensure(ctx, req.Provider, req.Model)
	if err != nil {
		o.publish(eventbus.TopicQueryFailed, err.Error())
		return nil, err
	}

	composed := o.composer.Build(userID, req.Prompt, req.UseContext, req.SystemPrompt, req.PromptFile)
	if composed.ContextUsed {
		log.Debug("using conversation context", "user", userID, "messages", composed.ContextMessages)
	}

	// The original prompt goes into history, not the composed text.
	o.store.Append(userID, memory.RoleUser, req.Prompt)

	steps := req.MaxSteps
	if steps <= 0 {
		steps = o.cfg.MaxSteps
	}

	reply, err := binding.Runner.Run(ctx, composed.Text, steps)
	if err != nil {
		o.publish(eventbus.TopicQueryFailed, err.Error())
		return nil, &ExternalCapabilityError{Err: err}
	}

	o.store.Append(userID, memory.RoleAssistant, reply)

	outcome := &QueryOutcome{
		Response:        reply,
		Provider:        binding.Provider,
		Model:           binding.Model,
		Steps:           steps,
		Timestamp:       time.Now(),
		ExecutionTime:   time.Since(start),
		ConversationID:  userID,
		ContextUsed:     composed.ContextUsed,
		ContextMessages: composed.ContextMessages,
	}
	o.publish(eventbus.TopicQueryCompleted, userID)

	log.Info("query completed",
		"user", userID,
		"provider", binding.Provider,
		"model", binding.Model,
		"duration", outcome.ExecutionTime,
		"context_messages", outcome.ContextMessages,
	)
	return outcome, nil
}

// Store exposes the conversation store for the memory endpoints.
func (o *Orchestrator) Store() *memory.Store { return o.store }

func (o *Orchestrator) publish(topic eventbus.Topic, payload any) {
	if o.bus != nil {
		o.bus.Publish(topic, payload)
	}
}
