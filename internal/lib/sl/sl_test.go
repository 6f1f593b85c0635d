package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecret(t *testing.T) {
	assert.Equal(t, "qyvO***", Secret("key", "qyvOyzrMZYPQ").Value.String())
	assert.Equal(t, "***", Secret("key", "abc").Value.String())
	assert.Equal(t, "", Secret("key", "").Value.String())
}

func TestErr(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
}
