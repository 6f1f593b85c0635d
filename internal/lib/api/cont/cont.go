package cont

import (
	"acadeemia/entity"
	"context"
)

type ctxKey string

const userDataKey ctxKey = "userData"

func PutUser(c context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(c, userDataKey, user)
}

func GetUser(c context.Context) *entity.UserAuth {
	user, ok := c.Value(userDataKey).(*entity.UserAuth)
	if !ok {
		return nil
	}
	return user
}
