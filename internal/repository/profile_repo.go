package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// ProfileRepo is the profile store contract. Load returns (nil, nil) when no
// profile exists; callers substitute a default profile on any failure.
type ProfileRepo interface {
	Load(ctx context.Context, userID string) (*model.UserProfile, error)
	Save(ctx context.Context, profile *model.UserProfile) error
}

type profileRepo struct {
	collection *mongo.Collection
}

// NewProfileRepo creates a MongoDB-backed profile repository.
func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{
		collection: db.Collection("profiles"),
	}
}

func (r *profileRepo) Load(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // no profile yet
		}
		return nil, err
	}
	if profile.TypeStats == nil {
		profile.TypeStats = make(map[string]*model.TypeStats)
	}
	return &profile, nil
}

func (r *profileRepo) Save(ctx context.Context, profile *model.UserProfile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": profile.UserID},
		profile,
		options.Replace().SetUpsert(true),
	)
	return err
}
