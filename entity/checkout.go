package entity

import (
	"acadeemia/internal/lib/validate"
	"fmt"
	"net/http"
	"strings"
)

// ProcessPaymentRequest is the body of the process-payment endpoint.
type ProcessPaymentRequest struct {
	PaymentData      GatewayOrderRequest `json:"paymentData"`
	RegistrationData RegistrationPayload `json:"registrationData"`
	PaymentMethod    string              `json:"paymentMethod" validate:"required"`
}

func (p *ProcessPaymentRequest) Bind(_ *http.Request) error {
	return p.Validate()
}

func (p *ProcessPaymentRequest) Validate() error {
	p.PaymentData.Currency = strings.ToUpper(strings.TrimSpace(p.PaymentData.Currency))
	p.PaymentData.BillingAddress.CountryCode = strings.ToUpper(strings.TrimSpace(p.PaymentData.BillingAddress.CountryCode))
	if err := validate.Struct(p); err != nil {
		return err
	}
	if !p.PaymentData.Amount.IsPositive() {
		return fmt.Errorf("invalid fields: ProcessPaymentRequest.PaymentData.Amount (gt)")
	}
	return nil
}

type ProcessPaymentResult struct {
	Success         bool     `json:"success"`
	RedirectURL     string   `json:"redirect_url,omitempty"`
	OrderTrackingID string   `json:"order_tracking_id,omitempty"`
	Error           string   `json:"error,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

type VerifyPaymentRequest struct {
	OrderTrackingID string `json:"orderTrackingId" validate:"required"`
}

func (v *VerifyPaymentRequest) Bind(_ *http.Request) error {
	v.OrderTrackingID = strings.TrimSpace(v.OrderTrackingID)
	return validate.Struct(v)
}

type OrderDetails struct {
	OrderID       string `json:"orderId"`
	SchoolName    string `json:"schoolName"`
	Plan          string `json:"plan"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

// VerifyResult is the outcome of a verification. OrderDetails is null when
// no local payment record matched the tracking id.
type VerifyResult struct {
	Success      bool          `json:"success"`
	Status       string        `json:"status,omitempty"`
	OrderDetails *OrderDetails `json:"orderDetails"`
	Message      string        `json:"message,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// PersistenceWarning is a non-fatal storage failure during checkout.
type PersistenceWarning struct {
	Step string
	Err  error
}

func (w PersistenceWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.Step, w.Err)
}

func (w PersistenceWarning) Unwrap() error {
	return w.Err
}

// ProvisionReport lists what provisioning created and what went wrong.
type ProvisionReport struct {
	SchoolID       string
	UserID         string
	ProfileID      string
	SubscriptionID string
	PaymentID      string
	RolledBack     bool
	Warnings       []PersistenceWarning
}

func (r *ProvisionReport) Warn(step string, err error) {
	r.Warnings = append(r.Warnings, PersistenceWarning{Step: step, Err: err})
}

func (r *ProvisionReport) OK() bool {
	return len(r.Warnings) == 0
}

func (r *ProvisionReport) Messages() []string {
	if len(r.Warnings) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		msgs = append(msgs, w.Error())
	}
	return msgs
}
