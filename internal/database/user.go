package repository

import (
	"acadeemia/entity"
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{"email", strings.ToLower(email)}}

	var user entity.User
	err = m.collection(connection, usersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}
	return &user, nil
}

func (m *MongoDB) SaveUser(ctx context.Context, user *entity.User) error {
	return m.insertOne(ctx, usersCollection, user)
}

func (m *MongoDB) DeleteUser(ctx context.Context, id string) error {
	return m.deleteByID(ctx, usersCollection, id)
}

func (m *MongoDB) SaveProfile(ctx context.Context, profile *entity.UserProfile) error {
	return m.insertOne(ctx, profilesCollection, profile)
}

func (m *MongoDB) DeleteProfile(ctx context.Context, id string) error {
	return m.deleteByID(ctx, profilesCollection, id)
}

func (m *MongoDB) GetProfileBySchool(ctx context.Context, schoolID string) (*entity.UserProfile, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var profile entity.UserProfile
	err = m.collection(connection, profilesCollection).FindOne(ctx, bson.D{{"school_id", schoolID}}).Decode(&profile)
	if err != nil {
		return nil, m.findError(err)
	}
	return &profile, nil
}
