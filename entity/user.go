package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	AdminRole = "admin"
)

// User is an identity record. The password is only ever stored hashed.
type User struct {
	ID           string            `json:"id" bson:"_id"`
	SchoolID     string            `json:"school_id" bson:"school_id"`
	Email        string            `json:"email" bson:"email"`
	PasswordHash string            `json:"-" bson:"password_hash"`
	Role         string            `json:"role" bson:"role"`
	Metadata     map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
}

// UserProfile holds the display data of a user, keyed by the user id.
type UserProfile struct {
	ID        string    `json:"id" bson:"_id"`
	SchoolID  string    `json:"school_id" bson:"school_id"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func NewUser(email, passwordHash string, metadata map[string]string) *User {
	role := metadata["role"]
	if role == "" {
		role = AdminRole
	}
	return &User{
		ID:           uuid.NewString(),
		SchoolID:     metadata["school_id"],
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	}
}

func NewAdminProfile(user *User, reg *RegistrationPayload) *UserProfile {
	return &UserProfile{
		ID:        user.ID,
		SchoolID:  user.SchoolID,
		FirstName: reg.AdminFirstName,
		LastName:  reg.AdminLastName,
		Email:     user.Email,
		Phone:     reg.AdminPhone,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}
}
