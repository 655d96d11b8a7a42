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

func (s *MongoStore) CreateTeam(ctx context.Context, t *models.Team) error {
	_, err := s.teams.InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

func (s *MongoStore) TeamByID(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	err := s.teams.FindOne(ctx, bson.M{"teamid": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MongoStore) TeamByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	var t models.Team
	err := s.teams.FindOne(ctx, bson.M{"invite_code": code}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MongoStore) TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.teams.Find(ctx, bson.M{"eventid": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	teams := []models.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// AddTeamMember pushes iff the member array is still under maxSize, so
// concurrent joins cannot race past the limit.
func (s *MongoStore) AddTeamMember(ctx context.Context, teamID string, member models.TeamMember, maxSize int) error {
	filter := bson.M{"teamid": teamID}
	if maxSize > 0 {
		filter["$expr"] = bson.M{"$lt": bson.A{bson.M{"$size": "$members"}, maxSize}}
	}
	res, err := s.teams.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"members": member},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err := s.TeamByID(ctx, teamID); err != nil {
		return err
	}
	return storage.ErrTeamFull
}

func (s *MongoStore) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	res, err := s.teams.UpdateOne(ctx, bson.M{"teamid": teamID}, bson.M{
		"$pull": bson.M{"members": bson.M{"userid": userID}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteTeam(ctx context.Context, id string) error {
	res, err := s.teams.DeleteOne(ctx, bson.M{"teamid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
