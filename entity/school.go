package entity

import (
	"time"

	"github.com/google/uuid"
)

// School is the tenant created by a successful registration.
type School struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Address      string    `json:"address" bson:"address"`
	Phone        string    `json:"phone" bson:"phone"`
	Email        string    `json:"email" bson:"email"`
	Website      string    `json:"website" bson:"website"`
	Type         string    `json:"type" bson:"type"`
	StudentCount string    `json:"student_count" bson:"student_count"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// NewSchool creates a School from the school section of a registration.
func NewSchool(reg *RegistrationPayload) *School {
	return &School{
		ID:           uuid.NewString(),
		Name:         reg.SchoolName,
		Address:      reg.SchoolAddress,
		Phone:        reg.SchoolPhone,
		Email:        reg.SchoolEmail,
		Website:      reg.SchoolWebsite,
		Type:         reg.SchoolType,
		StudentCount: reg.StudentCount,
		CreatedAt:    time.Now(),
	}
}
