package memory

import (
	"acadeemia/entity"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (*entity.School, *entity.PaymentRecord) {
	t.Helper()
	ctx := context.Background()

	school := entity.NewSchool(&entity.RegistrationPayload{SchoolName: "Hill School"})
	require.NoError(t, s.CreateSchool(ctx, school))
	require.NoError(t, s.CreateSubscription(ctx, entity.NewSubscription(school.ID, entity.PlanSelection{Name: "Starter"}, time.Now(), 365)))

	order := &entity.GatewayOrderRequest{ID: "ACD-1", Currency: "KES", Amount: decimal.NewFromInt(15000)}
	payment := entity.NewPaymentRecord(order, school.ID, "card", "OT-1", "Starter")
	require.NoError(t, s.CreatePayment(ctx, payment))
	return school, payment
}

func TestFindPaymentByTrackingID(t *testing.T) {
	s := New()
	seed(t, s)

	found, err := s.FindPaymentByTrackingID(context.Background(), "OT-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ACD-1", found.ID)
	assert.Equal(t, "Hill School", found.SchoolName)

	missing, err := s.FindPaymentByTrackingID(context.Background(), "OT-2")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestActivateSubscriptionOnce(t *testing.T) {
	s := New()
	school, _ := seed(t, s)
	ctx := context.Background()

	ok, err := s.ActivateSubscription(ctx, school.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ActivateSubscription(ctx, school.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	sub, err := s.GetSubscriptionBySchool(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
}

func TestUpdatePaymentStatus(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.UpdatePaymentStatus(ctx, "OT-1", "completed", "C1"))
	p, err := s.GetPayment(ctx, "ACD-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", p.Status)
	assert.Equal(t, "C1", p.ConfirmationCode)

	assert.Error(t, s.UpdatePaymentStatus(ctx, "OT-9", "completed", ""))

	list, err := s.ListPayments(ctx, "completed", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDuplicatePaymentRejected(t *testing.T) {
	s := New()
	_, payment := seed(t, s)
	assert.Error(t, s.CreatePayment(context.Background(), payment))
}

func TestApiKeys(t *testing.T) {
	s := New()
	key, err := s.GenerateApiKey("ops")
	require.NoError(t, err)

	username, err := s.CheckApiKey(key)
	require.NoError(t, err)
	assert.Equal(t, "ops", username)

	_, err = s.CheckApiKey("nope")
	assert.Error(t, err)
}
