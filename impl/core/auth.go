package core

import (
	"acadeemia/entity"
	"crypto/subtle"
	"fmt"
)

// AuthenticateByToken resolves a back-office operator from a bearer token:
// the configured listen key first, then the stored API keys.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	if c.authKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) == 1 {
		return &entity.UserAuth{Username: "internal", Token: token}, nil
	}
	if c.repo == nil {
		return nil, fmt.Errorf("invalid token")
	}
	username, err := c.repo.CheckApiKey(token)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return &entity.UserAuth{Username: username, Token: token}, nil
}

// ValidateToken is the websocket variant of AuthenticateByToken.
func (c *Core) ValidateToken(token string) (string, error) {
	user, err := c.AuthenticateByToken(token)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
