package core

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/sl"
	"acadeemia/wizard/registration"
	"acadeemia/wizard/workflow"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

const (
	orderPrefix          = "ACD-"
	defaultCountryCode   = "KE"
	defaultPaymentMethod = "pesapal"
	maxDescriptionLength = 100
)

func (c *Core) Plans() []entity.Plan {
	plans := make([]entity.Plan, len(c.settings.plans))
	copy(plans, c.settings.plans)
	return plans
}

// FindPlan looks a plan up by name, ignoring case.
func (c *Core) FindPlan(name string) (*entity.Plan, error) {
	name = strings.TrimSpace(name)
	for _, p := range c.settings.plans {
		if strings.EqualFold(p.Name, name) {
			plan := p
			return &plan, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, name)
}

func (c *Core) StartRegistration(ctx context.Context, planName string) (*entity.RegistrationSession, error) {
	if c.wizard == nil {
		return nil, ErrNotConfigured
	}
	plan, err := c.FindPlan(planName)
	if err != nil {
		return nil, err
	}

	state, err := c.wizard.Start(ctx, registration.WorkflowID, registration.InitialData(plan.Selection()))
	if err != nil {
		return nil, err
	}
	c.log.With(
		slog.String("session_id", state.ID),
		slog.String("plan", plan.Name),
	).Debug("registration started")

	return sessionView(state), nil
}

// RegistrationStep routes an input to the session's current step. On a rejected
// input the returned session is the unchanged one along with the error.
func (c *Core) RegistrationStep(ctx context.Context, sessionID string, input workflow.Input) (*entity.RegistrationSession, error) {
	if c.wizard == nil {
		return nil, ErrNotConfigured
	}
	state, err := c.wizard.Handle(ctx, sessionID, input)
	if state == nil {
		return nil, err
	}
	return sessionView(state), err
}

// SubmitRegistration finishes a session that reached the review step and starts its checkout.
func (c *Core) SubmitRegistration(ctx context.Context, sessionID string, details entity.SubmitDetails) (*entity.RegistrationSession, error) {
	if c.wizard == nil {
		return nil, ErrNotConfigured
	}
	state, err := c.wizard.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.CurrentStep != registration.StepReview {
		return sessionView(state), fmt.Errorf("%w: session is at step %s", ErrNotReady, state.CurrentStep)
	}

	data, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return c.RegistrationStep(ctx, sessionID, workflow.Input{Action: workflow.ActionSubmit, Data: data})
}

func (c *Core) GetRegistration(ctx context.Context, sessionID string) (*entity.RegistrationSession, error) {
	if c.wizard == nil {
		return nil, ErrNotConfigured
	}
	state, err := c.wizard.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionView(state), nil
}

func (c *Core) CloseRegistration(ctx context.Context, sessionID string) error {
	if c.wizard == nil {
		return ErrNotConfigured
	}
	return c.wizard.Close(ctx, sessionID)
}

func sessionView(state *workflow.SessionState) *entity.RegistrationSession {
	view := &entity.RegistrationSession{
		ID:        state.ID,
		Step:      string(state.CurrentStep),
		Completed: state.Completed,
		Payload:   registration.Payload(state).Redacted(),
	}
	if v, ok := state.Get(registration.KeyResult); ok {
		view.Result = v
	}
	return view
}

// CompleteRegistration turns a finished wizard payload into a payment request
// and starts the checkout. Price and currency come from the plan catalogue,
// never from the client.
func (c *Core) CompleteRegistration(ctx context.Context, payload entity.RegistrationPayload, details entity.SubmitDetails) (any, error) {
	if vErr := registration.ValidateContact(payload, details); vErr != nil {
		return nil, vErr
	}
	plan, err := c.FindPlan(payload.Plan.Name)
	if err != nil {
		return nil, err
	}
	payload.Plan = plan.Selection()

	req := c.paymentRequest(payload, plan, details)
	result, err := c.ProcessPayment(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, errors.New(result.Error)
	}
	c.log.With(
		slog.String("order_id", req.PaymentData.ID),
		slog.String("plan", plan.Name),
		sl.Secret("admin_email", payload.AdminEmail),
	).Info("registration handed to checkout")
	return result, nil
}

func (c *Core) paymentRequest(payload entity.RegistrationPayload, plan *entity.Plan, details entity.SubmitDetails) *entity.ProcessPaymentRequest {
	country := strings.ToUpper(strings.TrimSpace(details.CountryCode))
	if country == "" {
		country = defaultCountryCode
	}
	method := strings.TrimSpace(details.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}

	return &entity.ProcessPaymentRequest{
		PaymentData: entity.GatewayOrderRequest{
			ID:          orderPrefix + uuid.NewString(),
			Currency:    plan.Currency,
			Amount:      plan.Price,
			Description: truncate(fmt.Sprintf("%s plan subscription for %s", plan.Name, payload.SchoolName), maxDescriptionLength),
			CallbackURL: c.settings.callbackURL,
			BillingAddress: entity.BillingAddress{
				EmailAddress: payload.AdminEmail,
				PhoneNumber:  firstNonEmpty(details.Phone, payload.AdminPhone, payload.SchoolPhone),
				CountryCode:  country,
				FirstName:    payload.AdminFirstName,
				LastName:     payload.AdminLastName,
				Line1:        payload.SchoolAddress,
			},
		},
		RegistrationData: payload,
		PaymentMethod:    method,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
