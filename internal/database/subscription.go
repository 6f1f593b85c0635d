package repository

import (
	"acadeemia/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) CreateSubscription(ctx context.Context, sub *entity.Subscription) error {
	return m.insertOne(ctx, subscriptionsCollection, sub)
}

func (m *MongoDB) DeleteSubscription(ctx context.Context, id string) error {
	return m.deleteByID(ctx, subscriptionsCollection, id)
}

// ActivateSubscription moves the school's pending subscription to active.
// It reports false when there was no pending subscription to activate.
func (m *MongoDB) ActivateSubscription(ctx context.Context, schoolID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	filter := bson.D{
		{"school_id", schoolID},
		{"status", entity.SubscriptionPending},
	}
	update := bson.D{{"$set", bson.D{
		{"status", entity.SubscriptionActive},
		{"updated_at", time.Now()},
	}}}

	result, err := m.collection(connection, subscriptionsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mongodb update error: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (m *MongoDB) GetSubscriptionBySchool(ctx context.Context, schoolID string) (*entity.Subscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var sub entity.Subscription
	err = m.collection(connection, subscriptionsCollection).FindOne(ctx, bson.D{{"school_id", schoolID}}).Decode(&sub)
	if err != nil {
		return nil, m.findError(err)
	}
	return &sub, nil
}

// ListSubscriptions returns subscriptions newest first, optionally filtered by status.
func (m *MongoDB) ListSubscriptions(ctx context.Context, status string) ([]entity.Subscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{}
	if status != "" {
		filter = bson.D{{"status", status}}
	}
	opts := options.Find().SetSort(bson.D{{"start_date", -1}})

	cursor, err := m.collection(connection, subscriptionsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	subs := make([]entity.Subscription, 0)
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
