package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/types"
)

const teamCollection = "teams"

// TeamRepository handles persistence for teams in a MongoDB collection.
type TeamRepository struct {
	coll *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{coll: db.Collection(teamCollection)}
}

func (r *TeamRepository) Insert(ctx context.Context, team types.Team) error {
	_, err := r.coll.InsertOne(ctx, team)
	return err
}

func (r *TeamRepository) Get(ctx context.Context, id string) (types.Team, error) {
	var team types.Team
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Team{}, fmt.Errorf("team not found: %w", common.ErrNotFound)
		}
		return types.Team{}, err
	}
	return team, nil
}

// List returns all teams sorted by creation time, newest first.
func (r *TeamRepository) List(ctx context.Context) ([]types.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	teams := []types.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("team not found: %w", common.ErrNotFound)
	}
	return nil
}
