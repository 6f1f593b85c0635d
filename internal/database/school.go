package repository

import (
	"acadeemia/entity"
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) CreateSchool(ctx context.Context, school *entity.School) error {
	return m.insertOne(ctx, schoolsCollection, school)
}

// GetSchool returns nil when no school has the id.
func (m *MongoDB) GetSchool(ctx context.Context, id string) (*entity.School, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var school entity.School
	err = m.collection(connection, schoolsCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&school)
	if err != nil {
		return nil, m.findError(err)
	}
	return &school, nil
}

// DeleteSchool removes a school. Only used to compensate a failed registration.
func (m *MongoDB) DeleteSchool(ctx context.Context, id string) error {
	return m.deleteByID(ctx, schoolsCollection, id)
}
