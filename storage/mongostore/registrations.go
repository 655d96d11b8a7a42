package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventhorizon/models"
	"eventhorizon/storage"
)

func (s *MongoStore) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	_, err := s.registrations.InsertOne(ctx, reg)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

func (s *MongoStore) RegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	err := s.registrations.FindOne(ctx, bson.M{"registrationid": id}).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *MongoStore) findRegistrations(ctx context.Context, filter bson.M) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}})
	cursor, err := s.registrations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	regs := []models.Registration{}
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (s *MongoStore) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	return s.findRegistrations(ctx, bson.M{"eventid": eventID})
}

func (s *MongoStore) RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	return s.findRegistrations(ctx, bson.M{"participantid": userID})
}

func (s *MongoStore) ActiveRegistration(ctx context.Context, eventID, participantID string) (*models.Registration, error) {
	var reg models.Registration
	err := s.registrations.FindOne(ctx, bson.M{
		"eventid":       eventID,
		"participantid": participantID,
		"status":        bson.M{"$ne": models.StatusRejected},
	}).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *MongoStore) SetRegistrationStatus(ctx context.Context, id, status string) error {
	res, err := s.registrations.UpdateOne(ctx,
		bson.M{"registrationid": id},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *MongoStore) SetAttendance(ctx context.Context, id string, at time.Time) error {
	res, err := s.registrations.UpdateOne(ctx,
		bson.M{"registrationid": id},
		bson.M{"$set": bson.M{"attended": true, "attendance_time": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteRegistration(ctx context.Context, id string) error {
	res, err := s.registrations.DeleteOne(ctx, bson.M{"registrationid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *MongoStore) OldestWaitlisted(ctx context.Context, eventID string) (*models.Registration, error) {
	var reg models.Registration
	opts := options.FindOne().SetSort(bson.D{{Key: "registered_at", Value: 1}})
	err := s.registrations.FindOne(ctx, bson.M{
		"eventid": eventID,
		"status":  models.StatusWaitlisted,
	}, opts).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
