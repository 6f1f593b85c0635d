package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Email    string `validate:"required,contact_email"`
	Password string `validate:"required,min=8,maxbytes=72"`
}

func TestEmail(t *testing.T) {
	for _, ok := range []string{"jane@school.edu", "jane..doe@school.edu", "jane(x)@school.edu", "a+b@c.co"} {
		assert.True(t, Email(ok), ok)
	}
	for _, bad := range []string{"jane", "jane@school", "@school.edu", "ja ne@school.edu", "jane@@school.edu"} {
		assert.False(t, Email(bad), bad)
	}
}

func TestStructCustomTags(t *testing.T) {
	require.NoError(t, Struct(account{Email: "jane..doe@school.edu", Password: "longenough1"}))

	err := Struct(account{Email: "jane@school", Password: "longenough1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account.Email (contact_email)")

	require.NoError(t, Struct(account{Email: "jane@school.edu", Password: strings.Repeat("a", 72)}))

	err = Struct(account{Email: "jane@school.edu", Password: strings.Repeat("a", 73)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account.Password (maxbytes)")

	// 40 runes, 80 bytes
	err = Struct(account{Email: "jane@school.edu", Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(maxbytes)")
}
