package registration

import (
	"acadeemia/entity"
	"acadeemia/internal/database/memory"
	"acadeemia/wizard/workflow"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validAdmin = entity.AdminDetails{
	FirstName:       "Jane",
	LastName:        "Doe",
	Email:           "jane@school.edu",
	Phone:           "+254700000000",
	Password:        "longenough1",
	ConfirmPassword: "longenough1",
}

var validSchool = entity.SchoolDetails{
	Name:         "Hill School",
	Address:      "1 Hill Road, Nairobi",
	Type:         "primary",
	StudentCount: "100-500",
}

type harness struct {
	engine   *workflow.Engine
	store    *memory.Store
	received []entity.RegistrationPayload
	fail     error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{store: memory.New()}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	complete := func(_ context.Context, p entity.RegistrationPayload, d entity.SubmitDetails) (any, error) {
		if h.fail != nil {
			return nil, h.fail
		}
		h.received = append(h.received, p)
		return "redirect:" + d.PaymentMethod, nil
	}

	h.engine = workflow.NewEngine(workflow.NewMemoryStateStorage(time.Hour), log)
	h.engine.RegisterWorkflow(NewRegistrationWorkflow(h.store, complete, log))
	return h
}

func (h *harness) start(t *testing.T) *workflow.SessionState {
	t.Helper()
	state, err := h.engine.Start(context.Background(), WorkflowID, InitialData(entity.PlanSelection{
		Name:          "Starter",
		Price:         decimal.NewFromInt(15000),
		BillingPeriod: "year",
	}))
	require.NoError(t, err)
	return state
}

func (h *harness) send(t *testing.T, id string, action workflow.Action, data any) (*workflow.SessionState, error) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		raw = b
	}
	return h.engine.Handle(context.Background(), id, workflow.Input{Action: action, Data: raw})
}

func requireRule(t *testing.T, err error, rule Rule) *ValidationError {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	assert.Equal(t, rule, vErr.Rule)
	return vErr
}

func TestAdminStepAdvances(t *testing.T) {
	h := newHarness(t)
	state := h.start(t)

	got, err := h.send(t, state.ID, workflow.ActionNext, validAdmin)
	require.NoError(t, err)
	assert.Equal(t, StepSchool, got.CurrentStep)
	assert.Equal(t, "jane@school.edu", Payload(got).AdminEmail)
	assert.Equal(t, "Starter", Payload(got).Plan.Name)
}

func TestAdminStepShortPassword(t *testing.T) {
	for _, pw := range []string{"", "a", "1234567", "short"} {
		h := newHarness(t)
		state := h.start(t)

		admin := validAdmin
		admin.Password = pw
		admin.ConfirmPassword = pw

		got, err := h.send(t, state.ID, workflow.ActionNext, admin)
		require.Error(t, err, "password %q", pw)
		assert.Equal(t, StepAdmin, got.CurrentStep)
	}
}

func TestAdminStepMismatch(t *testing.T) {
	cases := map[string]entity.AdminDetails{
		"otherwise valid": func() entity.AdminDetails {
			a := validAdmin
			a.ConfirmPassword = "longenough2"
			return a
		}(),
		"missing names": func() entity.AdminDetails {
			a := validAdmin
			a.FirstName, a.LastName = "", ""
			a.ConfirmPassword = "different1"
			return a
		}(),
		"bad email and short": func() entity.AdminDetails {
			a := validAdmin
			a.Email = "not-an-email"
			a.Password = "short"
			a.ConfirmPassword = "shorter"
			return a
		}(),
	}
	for name, admin := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			state := h.start(t)

			got, err := h.send(t, state.ID, workflow.ActionNext, admin)
			requireRule(t, err, RuleMatch)
			assert.Equal(t, StepAdmin, got.CurrentStep)
		})
	}
}

func TestAdminStepMalformedEmail(t *testing.T) {
	for _, email := range []string{"jane", "jane@", "jane@school", "@school.edu", "ja ne@school.edu", "jane@school .edu"} {
		h := newHarness(t)
		state := h.start(t)

		admin := validAdmin
		admin.Email = email

		got, err := h.send(t, state.ID, workflow.ActionNext, admin)
		requireRule(t, err, RuleFormat)
		assert.Equal(t, StepAdmin, got.CurrentStep, email)
	}
}

func TestAdminStepRuleOrder(t *testing.T) {
	admin := validAdmin
	admin.FirstName = ""
	admin.Email = "bad"
	admin.Password, admin.ConfirmPassword = "short", "short"

	vErr := ValidateAdmin(admin)
	require.NotNil(t, vErr)
	assert.Equal(t, RuleFormat, vErr.Rule)

	admin.Email = "jane@school.edu"
	assert.Equal(t, RuleLength, ValidateAdmin(admin).Rule)

	admin.Password, admin.ConfirmPassword = "longenough1", "longenough1"
	assert.Equal(t, RuleRequired, ValidateAdmin(admin).Rule)

	admin.FirstName = "Jane"
	assert.Nil(t, ValidateAdmin(admin))
}

func TestAdminStepLongPassword(t *testing.T) {
	admin := validAdmin
	admin.Password = strings.Repeat("a", MaxPasswordBytes)
	admin.ConfirmPassword = admin.Password
	assert.Nil(t, ValidateAdmin(admin))

	for _, pw := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		h := newHarness(t)
		state := h.start(t)

		admin.Password, admin.ConfirmPassword = pw, pw
		got, err := h.send(t, state.ID, workflow.ActionNext, admin)
		vErr := requireRule(t, err, RuleLength)
		assert.Equal(t, "adminPassword", vErr.Field)
		assert.Equal(t, StepAdmin, got.CurrentStep)
	}
}

func TestAdminStepAcceptsLooseEmail(t *testing.T) {
	for _, email := range []string{"jane..doe@school.edu", "jane(x)@school.edu"} {
		admin := validAdmin
		admin.Email = email
		assert.Nil(t, ValidateAdmin(admin), email)
	}
}

func TestSchoolStepRequiredFields(t *testing.T) {
	blankers := map[string]func(*entity.SchoolDetails){
		"schoolName":    func(s *entity.SchoolDetails) { s.Name = "" },
		"schoolAddress": func(s *entity.SchoolDetails) { s.Address = "  " },
		"schoolType":    func(s *entity.SchoolDetails) { s.Type = "" },
		"studentCount":  func(s *entity.SchoolDetails) { s.StudentCount = "" },
	}
	for field, blank := range blankers {
		t.Run(field, func(t *testing.T) {
			h := newHarness(t)
			state := h.start(t)
			_, err := h.send(t, state.ID, workflow.ActionNext, validAdmin)
			require.NoError(t, err)

			school := validSchool
			blank(&school)

			got, err := h.send(t, state.ID, workflow.ActionNext, school)
			vErr := requireRule(t, err, RuleRequired)
			assert.Equal(t, field, vErr.Field)
			assert.Equal(t, StepSchool, got.CurrentStep)
		})
	}
}

func TestBackNavigation(t *testing.T) {
	h := newHarness(t)
	state := h.start(t)

	_, err := h.send(t, state.ID, workflow.ActionBack, nil)
	assert.ErrorIs(t, err, workflow.ErrNoPreviousStep)

	_, err = h.send(t, state.ID, workflow.ActionNext, validAdmin)
	require.NoError(t, err)
	_, err = h.send(t, state.ID, workflow.ActionNext, validSchool)
	require.NoError(t, err)

	got, err := h.send(t, state.ID, workflow.ActionBack, nil)
	require.NoError(t, err)
	assert.Equal(t, StepSchool, got.CurrentStep)
	assert.Equal(t, "Hill School", Payload(got).SchoolName)

	got, err = h.send(t, state.ID, workflow.ActionBack, nil)
	require.NoError(t, err)
	assert.Equal(t, StepAdmin, got.CurrentStep)
}

func TestSubmit(t *testing.T) {
	h := newHarness(t)
	state := h.start(t)
	_, err := h.send(t, state.ID, workflow.ActionNext, validAdmin)
	require.NoError(t, err)
	_, err = h.send(t, state.ID, workflow.ActionNext, validSchool)
	require.NoError(t, err)

	got, err := h.send(t, state.ID, workflow.ActionSubmit, entity.SubmitDetails{PaymentMethod: "card", CountryCode: "KE"})
	require.NoError(t, err)
	assert.True(t, got.Completed)

	result, _ := got.Get(KeyResult)
	assert.Equal(t, "redirect:card", result)

	require.Len(t, h.received, 1)
	p := h.received[0]
	assert.Equal(t, "Jane", p.AdminFirstName)
	assert.Equal(t, "longenough1", p.AdminPassword)
	assert.Equal(t, "Hill School", p.SchoolName)
	assert.Equal(t, "Starter", p.Plan.Name)

	_, err = h.engine.GetState(context.Background(), state.ID)
	assert.ErrorIs(t, err, workflow.ErrSessionNotFound)
}

func TestSubmitDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SaveUser(context.Background(), entity.NewUser("jane@school.edu", "hash", nil)))

	state := h.start(t)
	_, err := h.send(t, state.ID, workflow.ActionNext, validAdmin)
	require.NoError(t, err)
	_, err = h.send(t, state.ID, workflow.ActionNext, validSchool)
	require.NoError(t, err)

	got, err := h.send(t, state.ID, workflow.ActionSubmit, nil)
	requireRule(t, err, RuleDuplicate)
	assert.Equal(t, StepReview, got.CurrentStep)
	assert.Empty(t, h.received)
}

func TestSubmitCallbackFailureStaysOnReview(t *testing.T) {
	h := newHarness(t)
	h.fail = errors.New("gateway unavailable")

	state := h.start(t)
	_, err := h.send(t, state.ID, workflow.ActionNext, validAdmin)
	require.NoError(t, err)
	_, err = h.send(t, state.ID, workflow.ActionNext, validSchool)
	require.NoError(t, err)

	got, err := h.send(t, state.ID, workflow.ActionSubmit, nil)
	assert.ErrorIs(t, err, h.fail)
	assert.Equal(t, StepReview, got.CurrentStep)

	stored, err := h.engine.GetState(context.Background(), state.ID)
	require.NoError(t, err)
	assert.Equal(t, StepReview, stored.CurrentStep)
}

func TestSubmitRequiresPhone(t *testing.T) {
	h := newHarness(t)
	state := h.start(t)

	admin := validAdmin
	admin.Phone = ""
	_, err := h.send(t, state.ID, workflow.ActionNext, admin)
	require.NoError(t, err)
	_, err = h.send(t, state.ID, workflow.ActionNext, validSchool)
	require.NoError(t, err)

	got, err := h.send(t, state.ID, workflow.ActionSubmit, entity.SubmitDetails{CountryCode: "KE"})
	vErr := requireRule(t, err, RuleRequired)
	assert.Equal(t, "phone", vErr.Field)
	assert.Equal(t, StepReview, got.CurrentStep)
	assert.Empty(t, h.received)

	got, err = h.send(t, state.ID, workflow.ActionSubmit, entity.SubmitDetails{CountryCode: "KE", Phone: "+254711111111"})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.Len(t, h.received, 1)
}
