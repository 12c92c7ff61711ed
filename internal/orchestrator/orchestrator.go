package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/tool"
)

// State identifies where one orchestration cycle currently is.
type State string

// FSM states. Done is terminal for one invocation cycle; control returns to
// the caller, not to a dead state.
const (
	StateAwaitingModel  State = "awaiting_model"
	StateExecutingTools State = "executing_tools"
	StateDone           State = "done"
)

// Config tunes one Orchestrator instance.
type Config struct {
	// Persona selects the system-prompt variant.
	Persona Persona

	// MaxSteps bounds how many transitions one cycle may take before it
	// is aborted. Zero applies the default.
	MaxSteps int
}

// DefaultMaxSteps allows several model/tool round trips per user message
// while still catching a model that never stops calling tools.
const DefaultMaxSteps = 12

// Orchestrator drives the model/tool decision loop over a conversation
// state. It never touches the committed state: callers hand it a state,
// receive the successor, and persist through the store.
type Orchestrator struct {
	model    ModelClient
	catalog  *tool.Registry
	persona  Persona
	maxSteps int
	logger   *slog.Logger
}

// New creates an Orchestrator.
func New(model ModelClient, catalog *tool.Registry, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if model == nil {
		return nil, fmt.Errorf("model client cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("tool catalog cannot be nil")
	}
	if cfg.Persona == "" {
		cfg.Persona = PersonaConcise
	}
	if !cfg.Persona.Valid() {
		return nil, fmt.Errorf("unknown persona %q", cfg.Persona)
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		model:    model,
		catalog:  catalog,
		persona:  cfg.Persona,
		maxSteps: cfg.MaxSteps,
		logger:   logger,
	}, nil
}

// RunCycle executes one full orchestration cycle over the given state:
// AwaitingModel → (ExecutingTools → AwaitingModel)* → Done. The input state
// already contains the new user message. On any error the input state is
// returned unchanged so the caller persists nothing.
func (o *Orchestrator) RunCycle(
	ctx context.Context,
	state domain.ConversationState,
) (domain.ConversationState, error) {
	working := state.Clone()

	current := StateAwaitingModel
	steps := 0
	for current != StateDone {
		if steps >= o.maxSteps {
			return state, fmt.Errorf("%w: %d steps", ErrStepLimitExceeded, steps)
		}
		steps++

		var err error
		switch current {
		case StateAwaitingModel:
			current, err = o.modelTurn(ctx, &working)
		case StateExecutingTools:
			current, err = o.executeTools(ctx, &working)
		default:
			return state, fmt.Errorf("unexpected orchestration state %q", current)
		}
		if err != nil {
			return state, err
		}
	}

	o.logger.DebugContext(ctx, "orchestration cycle finished",
		"steps", steps,
		"messages", len(working.Messages),
		"tasks", len(working.Tasks))

	return working, nil
}

// modelTurn invokes the model with the full history behind the persona's
// system prompt and appends the reply. Tool calls in the reply move the
// cycle into ExecutingTools; a plain reply terminates it.
func (o *Orchestrator) modelTurn(ctx context.Context, working *domain.ConversationState) (State, error) {
	prompt := o.persona.SystemPrompt(o.catalog.Names(), working.Tasks)

	response, err := o.model.GenerateResponse(ctx, working.Messages, prompt, o.catalog.List())
	if err != nil {
		return StateDone, fmt.Errorf("%w: %v", ErrModelFailure, err)
	}

	working.Append(response)
	if response.HasToolCalls() {
		return StateExecutingTools, nil
	}
	return StateDone, nil
}

// executeTools dispatches every tool call from the model's last turn, in
// the order the model produced them. A validation failure for one call
// becomes that call's tool-result payload; sibling calls still dispatch.
func (o *Orchestrator) executeTools(ctx context.Context, working *domain.ConversationState) (State, error) {
	last, ok := working.LastMessage()
	if !ok || !last.HasToolCalls() {
		return StateAwaitingModel, nil
	}

	for _, call := range last.ToolCalls {
		ack, taskID, err := o.catalog.Dispatch(call.Name, call.Arguments)
		if err != nil {
			o.logger.WarnContext(ctx, "tool dispatch rejected",
				"tool", call.Name,
				"tool_call_id", call.ID,
				"error", err)
			working.Append(domain.NewToolResultMessage(call.ID, call.Name,
				fmt.Sprintf("Error: %v", err)))
			continue
		}

		task, err := domain.NewTask(taskID, call.Name, call.Arguments)
		if err != nil {
			return StateDone, fmt.Errorf("building task for %s: %w", call.Name, err)
		}
		if err := working.Tasks.Insert(task); err != nil {
			return StateDone, fmt.Errorf("registering task %s: %w", taskID, err)
		}

		working.Append(domain.NewToolResultMessage(call.ID, call.Name, ack))
		working.Tool = call.Name

		o.logger.InfoContext(ctx, "task dispatched",
			"tool", call.Name,
			"task_id", taskID)
	}

	return StateAwaitingModel, nil
}
