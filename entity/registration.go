package entity

import (
	"github.com/shopspring/decimal"
)

// PlanSelection is the pricing plan picked before the wizard starts.
type PlanSelection struct {
	Name          string          `json:"name" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	BillingPeriod string          `json:"period"`
}

// RegistrationPayload is the data collected by the registration wizard.
// It is decomposed into School, User, UserProfile and Subscription records
// and never stored as-is.
type RegistrationPayload struct {
	AdminFirstName       string `json:"adminFirstName" validate:"required"`
	AdminLastName        string `json:"adminLastName" validate:"required"`
	AdminEmail           string `json:"adminEmail" validate:"required,contact_email"`
	AdminPhone           string `json:"adminPhone"`
	AdminPassword        string `json:"adminPassword" validate:"required,min=8,maxbytes=72"`
	AdminConfirmPassword string `json:"adminConfirmPassword" validate:"eqfield=AdminPassword"`

	SchoolName    string `json:"schoolName" validate:"required"`
	SchoolAddress string `json:"schoolAddress" validate:"required"`
	SchoolPhone   string `json:"schoolPhone"`
	SchoolEmail   string `json:"schoolEmail" validate:"omitempty,contact_email"`
	SchoolWebsite string `json:"schoolWebsite"`
	SchoolType    string `json:"schoolType" validate:"required"`
	StudentCount  string `json:"studentCount" validate:"required"`

	Plan PlanSelection `json:"selectedPlan"`
}

// AdminDetails is the input of the wizard's first step.
type AdminDetails struct {
	FirstName       string `json:"adminFirstName"`
	LastName        string `json:"adminLastName"`
	Email           string `json:"adminEmail"`
	Phone           string `json:"adminPhone"`
	Password        string `json:"adminPassword"`
	ConfirmPassword string `json:"adminConfirmPassword"`
}

// SchoolDetails is the input of the wizard's second step.
type SchoolDetails struct {
	Name         string `json:"schoolName"`
	Address      string `json:"schoolAddress"`
	Phone        string `json:"schoolPhone"`
	Email        string `json:"schoolEmail"`
	Website      string `json:"schoolWebsite"`
	Type         string `json:"schoolType"`
	StudentCount string `json:"studentCount"`
}

func (p *RegistrationPayload) SetAdmin(a AdminDetails) {
	p.AdminFirstName = a.FirstName
	p.AdminLastName = a.LastName
	p.AdminEmail = a.Email
	p.AdminPhone = a.Phone
	p.AdminPassword = a.Password
	p.AdminConfirmPassword = a.ConfirmPassword
}

func (p *RegistrationPayload) SetSchool(s SchoolDetails) {
	p.SchoolName = s.Name
	p.SchoolAddress = s.Address
	p.SchoolPhone = s.Phone
	p.SchoolEmail = s.Email
	p.SchoolWebsite = s.Website
	p.SchoolType = s.Type
	p.StudentCount = s.StudentCount
}

// Redacted returns a copy without the password fields, safe to echo back to a client.
func (p RegistrationPayload) Redacted() RegistrationPayload {
	p.AdminPassword = ""
	p.AdminConfirmPassword = ""
	return p
}

// SubmitDetails is the input of the wizard's final step: what the payment needs
// beyond the registration itself.
type SubmitDetails struct {
	PaymentMethod string `json:"paymentMethod"`
	CountryCode   string `json:"countryCode"`
	Phone         string `json:"phone"`
}

// RegistrationSession is a wizard session as shown to the client.
type RegistrationSession struct {
	ID        string              `json:"id"`
	Step      string              `json:"step"`
	Completed bool                `json:"completed"`
	Payload   RegistrationPayload `json:"payload"`
	Result    any                 `json:"result,omitempty"`
}
