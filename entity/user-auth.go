package entity

import (
	"acadeemia/internal/lib/validate"
	"net/http"
)

// UserAuth is a back-office operator resolved from an API key.
type UserAuth struct {
	Username string `json:"username" bson:"username" validate:"required"`
	Token    string `json:"token" bson:"key" validate:"required,min=1"`
}

func (u *UserAuth) Bind(_ *http.Request) error {
	return validate.Struct(u)
}
