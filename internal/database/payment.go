package repository

import (
	"acadeemia/entity"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// paymentDocument stores the amount as Decimal128 so totals can be summed in the database.
type paymentDocument struct {
	ID               string               `bson:"_id"`
	SchoolID         string               `bson:"school_id"`
	Amount           primitive.Decimal128 `bson:"amount"`
	Currency         string               `bson:"currency"`
	PaymentMethod    string               `bson:"payment_method"`
	TrackingID       string               `bson:"pesapal_tracking_id"`
	Status           string               `bson:"status"`
	Description      string               `bson:"description"`
	PlanName         string               `bson:"plan_name"`
	ConfirmationCode string               `bson:"confirmation_code,omitempty"`
	RegistrantEmail  string               `bson:"registrant_email,omitempty"`
	RegistrantSchool string               `bson:"registrant_school,omitempty"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`
	SchoolName       string               `bson:"school_name,omitempty"`
}

func toPaymentDocument(p *entity.PaymentRecord) (*paymentDocument, error) {
	amount, err := primitive.ParseDecimal128(p.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("amount %s: %w", p.Amount, err)
	}
	return &paymentDocument{
		ID:               p.ID,
		SchoolID:         p.SchoolID,
		Amount:           amount,
		Currency:         p.Currency,
		PaymentMethod:    p.PaymentMethod,
		TrackingID:       p.TrackingID,
		Status:           p.Status,
		Description:      p.Description,
		PlanName:         p.PlanName,
		ConfirmationCode: p.ConfirmationCode,
		RegistrantEmail:  p.RegistrantEmail,
		RegistrantSchool: p.RegistrantSchool,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

func (d *paymentDocument) record() (*entity.PaymentWithSchool, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("payment %s amount: %w", d.ID, err)
	}
	return &entity.PaymentWithSchool{
		PaymentRecord: entity.PaymentRecord{
			ID:               d.ID,
			SchoolID:         d.SchoolID,
			Amount:           amount,
			Currency:         d.Currency,
			PaymentMethod:    d.PaymentMethod,
			TrackingID:       d.TrackingID,
			Status:           d.Status,
			Description:      d.Description,
			PlanName:         d.PlanName,
			ConfirmationCode: d.ConfirmationCode,
			RegistrantEmail:  d.RegistrantEmail,
			RegistrantSchool: d.RegistrantSchool,
			CreatedAt:        d.CreatedAt,
			UpdatedAt:        d.UpdatedAt,
		},
		SchoolName: d.SchoolName,
	}, nil
}

func (m *MongoDB) CreatePayment(ctx context.Context, payment *entity.PaymentRecord) error {
	doc, err := toPaymentDocument(payment)
	if err != nil {
		return err
	}
	return m.insertOne(ctx, paymentsCollection, doc)
}

// withSchoolName joins the payments matched by filter with the name of their school.
func withSchoolName(filter bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", filter}},
		{{"$lookup", bson.D{
			{"from", schoolsCollection},
			{"localField", "school_id"},
			{"foreignField", "_id"},
			{"as", "school"},
		}}},
		{{"$addFields", bson.D{
			{"school_name", bson.D{{"$ifNull", bson.A{
				bson.D{{"$arrayElemAt", bson.A{"$school.name", 0}}},
				"",
			}}}},
		}}},
		{{"$project", bson.D{{"school", 0}}}},
		{{"$limit", 1}},
	}
}

func (m *MongoDB) findPayment(ctx context.Context, filter bson.D) (*entity.PaymentWithSchool, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	cursor, err := m.collection(connection, paymentsCollection).Aggregate(ctx, withSchoolName(filter))
	if err != nil {
		return nil, fmt.Errorf("mongodb aggregate error: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []paymentDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0].record()
}

// FindPaymentByTrackingID returns nil when no payment carries the tracking id.
func (m *MongoDB) FindPaymentByTrackingID(ctx context.Context, trackingID string) (*entity.PaymentWithSchool, error) {
	return m.findPayment(ctx, bson.D{{"pesapal_tracking_id", trackingID}})
}

func (m *MongoDB) GetPayment(ctx context.Context, id string) (*entity.PaymentWithSchool, error) {
	return m.findPayment(ctx, bson.D{{"_id", id}})
}

func (m *MongoDB) UpdatePaymentStatus(ctx context.Context, trackingID, status, confirmationCode string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{"pesapal_tracking_id", trackingID}}
	update := bson.D{{"$set", bson.D{
		{"status", status},
		{"confirmation_code", confirmationCode},
		{"updated_at", time.Now()},
	}}}

	result, err := m.collection(connection, paymentsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("payment with tracking id %s not found", trackingID)
	}
	return nil
}

// ListPayments returns payments newest first, optionally filtered by status.
func (m *MongoDB) ListPayments(ctx context.Context, status string, limit int64) ([]entity.PaymentRecord, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{}
	if status != "" {
		filter = bson.D{{"status", status}}
	}
	opts := options.Find().SetSort(bson.D{{"created_at", -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := m.collection(connection, paymentsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []paymentDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	payments := make([]entity.PaymentRecord, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.record()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p.PaymentRecord)
	}
	return payments, nil
}
