package workflow

import (
	"acadeemia/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine drives sessions through their workflow steps.
type Engine struct {
	mu        sync.RWMutex
	workflows map[WorkflowID]Workflow
	storage   StateStorage
	log       *slog.Logger
}

func NewEngine(storage StateStorage, log *slog.Logger) *Engine {
	return &Engine{
		workflows: make(map[WorkflowID]Workflow),
		storage:   storage,
		log:       log.With(sl.Module("workflow")),
	}
}

func (e *Engine) RegisterWorkflow(w Workflow) {
	e.mu.Lock()
	e.workflows[w.ID()] = w
	e.mu.Unlock()
	e.log.Debug("registered workflow", slog.String("workflow_id", string(w.ID())))
}

func (e *Engine) workflow(id WorkflowID) (Workflow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	w, ok := e.workflows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	return w, nil
}

// Start opens a new session at the workflow's initial step.
func (e *Engine) Start(ctx context.Context, workflowID WorkflowID, data map[string]any) (*SessionState, error) {
	w, err := e.workflow(workflowID)
	if err != nil {
		return nil, err
	}

	state := NewSessionState(workflowID, w.InitialStep())
	state.MergeData(data)

	if err = e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving initial state: %w", err)
	}

	e.log.With(
		slog.String("session_id", state.ID),
		slog.String("workflow_id", string(workflowID)),
	).Debug("session started")
	return state, nil
}

// GetState returns the current state of a session.
func (e *Engine) GetState(ctx context.Context, sessionID string) (*SessionState, error) {
	state, err := e.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// Close discards a session and everything entered in it.
func (e *Engine) Close(ctx context.Context, sessionID string) error {
	return e.storage.Delete(ctx, sessionID)
}

// Handle routes an input to the session's current step. On a step error the
// session stays where it was and the unchanged state is returned with the error.
func (e *Engine) Handle(ctx context.Context, sessionID string, input Input) (*SessionState, error) {
	state, err := e.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	w, err := e.workflow(state.WorkflowID)
	if err != nil {
		return state, err
	}

	step, ok := w.GetStep(state.CurrentStep)
	if !ok {
		return state, fmt.Errorf("step not found: %s", state.CurrentStep)
	}

	var result StepResult
	switch input.Action {
	case ActionBack:
		prev := step.Previous()
		if prev == "" {
			return state, ErrNoPreviousStep
		}
		result = StepResult{NextStep: prev}
	case ActionNext, ActionSubmit:
		result = step.Handle(ctx, state.Clone(), input)
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownAction, input.Action)
	}

	return e.processResult(ctx, state, w, result)
}

func (e *Engine) processResult(ctx context.Context, state *SessionState, w Workflow, result StepResult) (*SessionState, error) {
	log := e.log.With(
		slog.String("session_id", state.ID),
		slog.String("step_id", string(state.CurrentStep)),
	)

	if result.Error != nil {
		log.Debug("step rejected input", sl.Err(result.Error))
		return state, result.Error
	}

	next := state.Clone()
	if result.UpdateState != nil {
		next.MergeData(result.UpdateState)
	}
	next.UpdatedAt = time.Now()

	if result.Complete {
		next.Completed = true
		log.Info("workflow completed", slog.String("workflow_id", string(state.WorkflowID)))
		if err := e.storage.Delete(ctx, state.ID); err != nil {
			return next, fmt.Errorf("deleting completed state: %w", err)
		}
		return next, nil
	}

	if result.NextStep != "" && result.NextStep != state.CurrentStep {
		if _, ok := w.GetStep(result.NextStep); !ok {
			return state, fmt.Errorf("next step not found: %s", result.NextStep)
		}
		next.CurrentStep = result.NextStep
		log.Debug("transitioning to step", slog.String("next_step", string(result.NextStep)))
	}

	if err := e.storage.Save(ctx, next); err != nil {
		return state, fmt.Errorf("saving state: %w", err)
	}
	return next, nil
}
