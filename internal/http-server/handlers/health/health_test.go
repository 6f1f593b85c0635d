package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type checks map[string]string

func (c checks) Health(_ context.Context) map[string]string {
	return c
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(checks{"store": "ok", "guard": "ok"})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"healthy":true,"checks":{"store":"ok","guard":"ok"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Health(checks{"store": "connection refused"})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
