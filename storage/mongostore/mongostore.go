// Package mongostore is the MongoDB storage backend, the first rung of the
// cascade whenever MONGODB_URI is configured.
package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"eventhorizon/db"
	"eventhorizon/storage"
)

var _ storage.Store = (*MongoStore)(nil)

type MongoStore struct {
	users         *mongo.Collection
	events        *mongo.Collection
	registrations *mongo.Collection
	teams         *mongo.Collection
	notifications *mongo.Collection
	messages      *mongo.Collection
	reviews       *mongo.Collection
}

func New(database *mongo.Database) *MongoStore {
	return &MongoStore{
		users:         database.Collection(db.UsersColl),
		events:        database.Collection(db.EventsColl),
		registrations: database.Collection(db.RegistrationsColl),
		teams:         database.Collection(db.TeamsColl),
		notifications: database.Collection(db.NotificationsColl),
		messages:      database.Collection(db.MessagesColl),
		reviews:       database.Collection(db.ReviewsColl),
	}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.users.Database().Client().Disconnect(ctx)
}
