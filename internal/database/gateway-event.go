package repository

import (
	"acadeemia/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveGatewayEvent inserts or replaces an IPN notification record.
func (m *MongoDB) SaveGatewayEvent(ctx context.Context, event *entity.GatewayEvent) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{"_id", event.ID}}
	update := bson.D{{"$set", event}}

	_, err = m.collection(connection, gatewayEventsCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) ListGatewayEvents(ctx context.Context, trackingID string) ([]entity.GatewayEvent, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{"order_tracking_id", trackingID}}
	opts := options.Find().SetSort(bson.D{{"received_at", 1}})

	cursor, err := m.collection(connection, gatewayEventsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]entity.GatewayEvent, 0)
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
