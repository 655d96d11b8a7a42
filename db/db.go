// Package db owns the MongoDB connection and collection names shared by the
// mongostore adapter and the document proxy.
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersColl         = "users"
	EventsColl        = "events"
	RegistrationsColl = "registrations"
	TeamsColl         = "teams"
	NotificationsColl = "notifications"
	MessagesColl      = "messages"
	ReviewsColl       = "reviews"
)

// Connect dials MongoDB and pings it before handing back the database handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the adapter's queries lean on. Unique
// invite codes back the collision retry in team creation.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersColl: {
			{Keys: bson.D{{Key: "userid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		EventsColl: {
			{Keys: bson.D{{Key: "eventid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		RegistrationsColl: {
			{Keys: bson.D{{Key: "registrationid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "eventid", Value: 1}, {Key: "status", Value: 1}, {Key: "registered_at", Value: 1}}},
			{Keys: bson.D{{Key: "participantid", Value: 1}}},
		},
		TeamsColl: {
			{Keys: bson.D{{Key: "teamid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "invite_code", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "eventid", Value: 1}}},
		},
		NotificationsColl: {
			{Keys: bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		MessagesColl: {
			{Keys: bson.D{{Key: "eventid", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		ReviewsColl: {
			{Keys: bson.D{{Key: "eventid", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
