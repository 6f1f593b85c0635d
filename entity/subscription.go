package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionPending = "pending"
	SubscriptionActive  = "active"
)

type Subscription struct {
	ID            string    `json:"id" bson:"_id"`
	SchoolID      string    `json:"school_id" bson:"school_id"`
	PlanName      string    `json:"plan_name" bson:"plan_name"`
	BillingPeriod string    `json:"billing_period" bson:"billing_period"`
	Status        string    `json:"status" bson:"status"`
	StartDate     time.Time `json:"start_date" bson:"start_date"`
	EndDate       time.Time `json:"end_date" bson:"end_date"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// NewSubscription opens a pending subscription with a fixed term of days,
// independent of the plan's billing period label.
func NewSubscription(schoolID string, plan PlanSelection, now time.Time, days int) *Subscription {
	return &Subscription{
		ID:            uuid.NewString(),
		SchoolID:      schoolID,
		PlanName:      plan.Name,
		BillingPeriod: plan.BillingPeriod,
		Status:        SubscriptionPending,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, days),
		UpdatedAt:     now,
	}
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}
