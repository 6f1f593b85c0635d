package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "pending"
)

// PaymentRecord is keyed by the merchant order id sent to the gateway.
// The registrant fields are only set when the school account could not be
// provisioned, so the order can be reconciled by hand.
type PaymentRecord struct {
	ID               string          `json:"id"`
	SchoolID         string          `json:"school_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PaymentMethod    string          `json:"payment_method"`
	TrackingID       string          `json:"pesapal_tracking_id"`
	Status           string          `json:"status"`
	Description      string          `json:"description"`
	PlanName         string          `json:"plan_name"`
	ConfirmationCode string          `json:"confirmation_code,omitempty"`
	RegistrantEmail  string          `json:"registrant_email,omitempty"`
	RegistrantSchool string          `json:"registrant_school,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PaymentWithSchool is a payment joined with the name of its school.
type PaymentWithSchool struct {
	PaymentRecord
	SchoolName string `json:"school_name"`
}

func NewPaymentRecord(order *GatewayOrderRequest, schoolID, method, trackingID, planName string) *PaymentRecord {
	now := time.Now()
	return &PaymentRecord{
		ID:            order.ID,
		SchoolID:      schoolID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		PaymentMethod: method,
		TrackingID:    trackingID,
		Status:        PaymentPending,
		Description:   order.Description,
		PlanName:      planName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// PaymentStatus maps a gateway status description to the stored status.
func PaymentStatus(gatewayStatus string) string {
	return strings.ToLower(gatewayStatus)
}
