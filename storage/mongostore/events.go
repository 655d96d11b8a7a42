package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventhorizon/models"
	"eventhorizon/storage"
)

func (s *MongoStore) CreateEvent(ctx context.Context, e *models.Event) error {
	_, err := s.events.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

func (s *MongoStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.events.FindOne(ctx, bson.M{"eventid": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *MongoStore) Events(ctx context.Context, q storage.EventQuery) ([]models.Event, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if q.OrganizerID != "" {
		filter["organizerid"] = q.OrganizerID
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": q.Search, "$options": "i"}
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *MongoStore) UpdateEvent(ctx context.Context, e *models.Event) error {
	// active_count stays under the control of Reserve/ReleaseSeat
	res, err := s.events.UpdateOne(ctx, bson.M{"eventid": e.EventID}, bson.M{
		"$set": bson.M{
			"title":                e.Title,
			"description":          e.Description,
			"start":                e.Start,
			"end":                  e.End,
			"location":             e.Location,
			"location_type":        e.LocationType,
			"category":             e.Category,
			"capacity":             e.Capacity,
			"banner_url":           e.BannerURL,
			"organizer_name":       e.OrganizerName,
			"is_registration_open": e.IsRegistrationOpen,
			"custom_questions":     e.CustomQuestions,
			"collaborator_emails":  e.CollaboratorEmails,
			"participation_mode":   e.ParticipationMode,
			"max_team_size":        e.MaxTeamSize,
			"updated_at":           e.UpdatedAt,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.events.DeleteOne(ctx, bson.M{"eventid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReserveSeat uses a filtered $inc so the capacity check and the increment
// are one atomic document update, closing the read-then-write gap.
func (s *MongoStore) ReserveSeat(ctx context.Context, eventID string) error {
	res, err := s.events.UpdateOne(ctx, bson.M{
		"eventid": eventID,
		"$expr":   bson.M{"$lt": bson.A{"$active_count", "$capacity"}},
	}, bson.M{
		"$inc": bson.M{"active_count": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err := s.EventByID(ctx, eventID); err != nil {
		return err
	}
	return storage.ErrCapacity
}

func (s *MongoStore) ReleaseSeat(ctx context.Context, eventID string) error {
	res, err := s.events.UpdateOne(ctx, bson.M{
		"eventid":      eventID,
		"active_count": bson.M{"$gt": 0},
	}, bson.M{
		"$inc": bson.M{"active_count": -1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	// already at zero still counts as released
	if _, err := s.EventByID(ctx, eventID); err != nil {
		return err
	}
	return nil
}
