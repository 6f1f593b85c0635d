package admin

import (
	"acadeemia/entity"
	"acadeemia/impl/core"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coreStub struct {
	payments   map[string]*entity.PaymentWithSchool
	lastStatus string
	lastLimit  int64
}

func (c *coreStub) ListPayments(_ context.Context, status string, limit int64) ([]entity.PaymentRecord, error) {
	c.lastStatus, c.lastLimit = status, limit
	out := make([]entity.PaymentRecord, 0, len(c.payments))
	for _, p := range c.payments {
		out = append(out, p.PaymentRecord)
	}
	return out, nil
}

func (c *coreStub) GetPayment(_ context.Context, id string) (*entity.PaymentWithSchool, error) {
	p, ok := c.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: payment %s", core.ErrNotFound, id)
	}
	return p, nil
}

func (c *coreStub) ReverifyPayment(_ context.Context, id string) (*entity.VerifyResult, error) {
	if _, err := c.GetPayment(context.Background(), id); err != nil {
		return nil, err
	}
	return &entity.VerifyResult{Success: true, Status: "COMPLETED"}, nil
}

func (c *coreStub) GatewayEvents(_ context.Context, trackingID string) ([]entity.GatewayEvent, error) {
	return []entity.GatewayEvent{{ID: "e1", TrackingID: trackingID}}, nil
}

func (c *coreStub) ListSubscriptions(_ context.Context, _ string) ([]entity.Subscription, error) {
	return []entity.Subscription{{ID: "s1", Status: entity.SubscriptionActive}}, nil
}

func router() (http.Handler, *coreStub) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stub := &coreStub{payments: map[string]*entity.PaymentWithSchool{
		"ORD-1": {
			PaymentRecord: entity.PaymentRecord{ID: "ORD-1", TrackingID: "OT-1", Amount: decimal.NewFromInt(15000), Status: "pending"},
			SchoolName:    "Hillside Academy",
		},
	}}

	r := chi.NewRouter()
	r.Get("/payments", ListPayments(log, stub))
	r.Get("/payments/{id}", GetPayment(log, stub))
	r.Post("/payments/{id}/verify", ReverifyPayment(log, stub))
	r.Get("/payments/{id}/events", GatewayEvents(log, stub))
	r.Get("/subscriptions", ListSubscriptions(log, stub))
	return r, stub
}

func get(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestListPayments(t *testing.T) {
	h, stub := router()

	rec := get(h, http.MethodGet, "/payments?status=completed&limit=20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", stub.lastStatus)
	assert.Equal(t, int64(20), stub.lastLimit)
	assert.Contains(t, rec.Body.String(), `"ORD-1"`)

	rec = get(h, http.MethodGet, "/payments?limit=ten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPayment(t *testing.T) {
	h, _ := router()

	rec := get(h, http.MethodGet, "/payments/ORD-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data entity.PaymentWithSchool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Hillside Academy", body.Data.SchoolName)
	assert.Equal(t, "OT-1", body.Data.TrackingID)

	rec = get(h, http.MethodGet, "/payments/ORD-9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReverifyAndEvents(t *testing.T) {
	h, _ := router()

	rec := get(h, http.MethodPost, "/payments/ORD-1/verify")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"COMPLETED"`)

	rec = get(h, http.MethodGet, "/payments/ORD-1/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"OT-1"`)

	rec = get(h, http.MethodGet, "/subscriptions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active"`)
}
