package entity

import "time"

// PaymentReceipt is the confirmation mailed to a school administrator after activation.
type PaymentReceipt struct {
	ToEmail          string
	ToName           string
	SchoolName       string
	OrderID          string
	Plan             string
	Amount           string
	PaymentMethod    string
	ConfirmationCode string
	ValidUntil       time.Time
}
