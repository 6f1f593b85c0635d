package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWorkflow WorkflowID = "test"
	stepOne      StepID     = "one"
	stepTwo      StepID     = "two"
)

var errRejected = errors.New("rejected")

type funcStep struct {
	id     StepID
	prev   StepID
	handle func(state *SessionState, input Input) StepResult
}

func (s *funcStep) ID() StepID       { return s.id }
func (s *funcStep) Previous() StepID { return s.prev }
func (s *funcStep) Handle(_ context.Context, state *SessionState, input Input) StepResult {
	return s.handle(state, input)
}

type testFlow struct {
	steps map[StepID]Step
}

func (w *testFlow) ID() WorkflowID      { return testWorkflow }
func (w *testFlow) InitialStep() StepID { return stepOne }
func (w *testFlow) GetStep(id StepID) (Step, bool) {
	s, ok := w.steps[id]
	return s, ok
}
func (w *testFlow) Steps() []Step {
	return []Step{w.steps[stepOne], w.steps[stepTwo]}
}

func newTestEngine() (*Engine, *MemoryStateStorage) {
	flow := &testFlow{steps: map[StepID]Step{
		stepOne: &funcStep{id: stepOne, handle: func(state *SessionState, input Input) StepResult {
			if string(input.Data) == `"bad"` {
				return StepResult{Error: errRejected}
			}
			return StepResult{NextStep: stepTwo, UpdateState: map[string]any{"one": string(input.Data)}}
		}},
		stepTwo: &funcStep{id: stepTwo, prev: stepOne, handle: func(state *SessionState, input Input) StepResult {
			return StepResult{Complete: true, UpdateState: map[string]any{"done": state.GetString("one")}}
		}},
	}}

	storage := NewMemoryStateStorage(time.Hour)
	e := NewEngine(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.RegisterWorkflow(flow)
	return e, storage
}

func TestEngineFlow(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	state, err := e.Start(ctx, testWorkflow, map[string]any{"seed": "x"})
	require.NoError(t, err)
	assert.Equal(t, stepOne, state.CurrentStep)

	t.Run("step error keeps the session in place", func(t *testing.T) {
		got, err := e.Handle(ctx, state.ID, Input{Action: ActionNext, Data: []byte(`"bad"`)})
		assert.ErrorIs(t, err, errRejected)
		assert.Equal(t, stepOne, got.CurrentStep)

		stored, err := e.GetState(ctx, state.ID)
		require.NoError(t, err)
		assert.Equal(t, stepOne, stored.CurrentStep)
	})

	t.Run("back from the first step is refused", func(t *testing.T) {
		_, err := e.Handle(ctx, state.ID, Input{Action: ActionBack})
		assert.ErrorIs(t, err, ErrNoPreviousStep)
	})

	got, err := e.Handle(ctx, state.ID, Input{Action: ActionNext, Data: []byte(`"ok"`)})
	require.NoError(t, err)
	assert.Equal(t, stepTwo, got.CurrentStep)
	assert.Equal(t, `"ok"`, got.GetString("one"))
	assert.Equal(t, "x", got.GetString("seed"))

	got, err = e.Handle(ctx, state.ID, Input{Action: ActionBack})
	require.NoError(t, err)
	assert.Equal(t, stepOne, got.CurrentStep)
	assert.Equal(t, `"ok"`, got.GetString("one"))

	_, err = e.Handle(ctx, state.ID, Input{Action: ActionNext, Data: []byte(`"again"`)})
	require.NoError(t, err)

	got, err = e.Handle(ctx, state.ID, Input{Action: ActionSubmit})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, `"again"`, got.GetString("done"))

	_, err = e.GetState(ctx, state.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEngineUnknownAction(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	state, err := e.Start(ctx, testWorkflow, nil)
	require.NoError(t, err)

	_, err = e.Handle(ctx, state.ID, Input{Action: "jump"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestEngineUnknownWorkflow(t *testing.T) {
	e, _ := newTestEngine()
	_, err := e.Start(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestEngineClose(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine()

	state, err := e.Start(ctx, testWorkflow, nil)
	require.NoError(t, err)
	require.NoError(t, e.Close(ctx, state.ID))

	_, err = e.Handle(ctx, state.ID, Input{Action: ActionNext})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStateStorageExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStateStorage(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	state := NewSessionState(testWorkflow, stepOne)
	state.UpdatedAt = now
	require.NoError(t, s.Save(ctx, state))

	loaded, err := s.Load(ctx, state.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	loaded.Data["mutated"] = true
	again, _ := s.Load(ctx, state.ID)
	_, ok := again.Get("mutated")
	assert.False(t, ok, "stored state must not share the data map")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	loaded, err = s.Load(ctx, state.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
