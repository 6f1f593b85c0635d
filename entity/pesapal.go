package entity

import (
	"github.com/shopspring/decimal"
)

const (
	GatewayStatusCompleted = "COMPLETED"
	GatewayStatusFailed    = "FAILED"
	GatewayStatusInvalid   = "INVALID"
	GatewayStatusReversed  = "REVERSED"
)

type BillingAddress struct {
	EmailAddress string `json:"email_address" validate:"required,contact_email"`
	PhoneNumber  string `json:"phone_number" validate:"required"`
	CountryCode  string `json:"country_code" validate:"required,len=2"`
	FirstName    string `json:"first_name" validate:"required"`
	MiddleName   string `json:"middle_name,omitempty"`
	LastName     string `json:"last_name" validate:"required"`
	Line1        string `json:"line_1"`
	Line2        string `json:"line_2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
}

// GatewayOrderRequest is the order submitted to the payment gateway.
// ID is the merchant reference and must be unique per order.
type GatewayOrderRequest struct {
	ID             string          `json:"id" validate:"required,max=50"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description" validate:"required,max=100"`
	CallbackURL    string          `json:"callback_url" validate:"required,url"`
	NotificationID string          `json:"notification_id,omitempty"`
	BillingAddress BillingAddress  `json:"billing_address"`
}

type OrderResponse struct {
	OrderTrackingID   string `json:"order_tracking_id"`
	MerchantReference string `json:"merchant_reference"`
	RedirectURL       string `json:"redirect_url"`
}

type TransactionStatus struct {
	PaymentMethod            string  `json:"payment_method"`
	Amount                   float64 `json:"amount"`
	CreatedDate              string  `json:"created_date"`
	ConfirmationCode         string  `json:"confirmation_code"`
	PaymentStatusDescription string  `json:"payment_status_description"`
	Description              string  `json:"description"`
	Message                  string  `json:"message"`
	PaymentAccount           string  `json:"payment_account"`
	CallbackURL              string  `json:"call_back_url"`
	StatusCode               int     `json:"status_code"`
	MerchantReference        string  `json:"merchant_reference"`
	Currency                 string  `json:"currency"`
}

func (t *TransactionStatus) IsCompleted() bool {
	return t.PaymentStatusDescription == GatewayStatusCompleted
}
