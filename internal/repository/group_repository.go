package repository

import (
	"chatwire/internal/entity"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	Create(ctx context.Context, group entity.Group) (string, error)
	Get(ctx context.Context, groupId string) (entity.Group, error)
	GetActiveForMember(ctx context.Context, groupId, userId string) (entity.Group, error)
	ListActiveByMember(ctx context.Context, userId string) ([]entity.Group, error)
	EnsureIndexes(ctx context.Context) error
}

type groupRepository struct {
	db *mongo.Database
}

func NewGroupRepository(db *mongo.Database) GroupRepository {
	return &groupRepository{
		db: db,
	}
}

// Create stores a new active group and returns its id
func (r *groupRepository) Create(ctx context.Context, group entity.Group) (string, error) {
	collection := r.db.Collection("groups")
	group.Id = uuid.New().String()
	group.IsActive = true
	now := time.Now().UTC().Truncate(time.Millisecond)
	group.CreatedAt = now
	group.UpdatedAt = now

	_, err := collection.InsertOne(ctx, group)
	if err != nil {
		return "", err
	}

	return group.Id, nil
}

// Get returns a group by ID regardless of its active flag
func (r *groupRepository) Get(ctx context.Context, groupId string) (entity.Group, error) {
	collection := r.db.Collection("groups")
	filter := bson.M{"_id": groupId}

	var group entity.Group
	err := collection.FindOne(ctx, filter).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Group{}, ErrGroupNotFound
		}
		return entity.Group{}, err
	}

	return group, nil
}

// GetActiveForMember returns the group only when it is active and userId is a member.
// A missing group and a non-member caller both yield ErrGroupNotFound.
func (r *groupRepository) GetActiveForMember(ctx context.Context, groupId, userId string) (entity.Group, error) {
	collection := r.db.Collection("groups")
	filter := bson.M{
		"_id":          groupId,
		"members.user": userId,
		"isActive":     true,
	}

	var group entity.Group
	err := collection.FindOne(ctx, filter).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Group{}, ErrGroupNotFound
		}
		return entity.Group{}, err
	}

	return group, nil
}

// ListActiveByMember returns the active groups of a user, most recently updated first
func (r *groupRepository) ListActiveByMember(ctx context.Context, userId string) ([]entity.Group, error) {
	collection := r.db.Collection("groups")
	filter := bson.M{
		"members.user": userId,
		"isActive":     true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []entity.Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *groupRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection("groups")
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "members.user", Value: 1}}},
		{Keys: bson.D{{Key: "admin", Value: 1}}},
	})
	return err
}
