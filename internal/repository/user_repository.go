package repository

import (
	"chatwire/internal/entity"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Get(ctx context.Context, userId string) (entity.User, error)
	Index(ctx context.Context, filter entity.UserIndexFilter) ([]entity.User, error)
	ListExcept(ctx context.Context, userId string) ([]entity.User, error)
}

type userRepository struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		db: db,
	}
}

// password hashes live in the same documents and must never leave the store
var publicUserProjection = bson.M{"password": 0}

func (r *userRepository) Get(ctx context.Context, userId string) (entity.User, error) {
	collection := r.db.Collection("users")
	filter := bson.M{"_id": userId}

	var user entity.User
	err := collection.FindOne(ctx, filter, options.FindOne().SetProjection(publicUserProjection)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}

	return user, nil
}

// Index returns the users whose ids are listed in the filter. Unknown ids are skipped.
func (r *userRepository) Index(ctx context.Context, filter entity.UserIndexFilter) ([]entity.User, error) {
	if len(filter.Ids) == 0 {
		return []entity.User{}, nil
	}

	collection := r.db.Collection("users")
	bsonFilter := bson.M{"_id": bson.M{"$in": filter.Ids}}

	cursor, err := collection.Find(ctx, bsonFilter, options.Find().SetProjection(publicUserProjection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []entity.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// ListExcept returns every user other than userId.
func (r *userRepository) ListExcept(ctx context.Context, userId string) ([]entity.User, error) {
	collection := r.db.Collection("users")
	filter := bson.M{"_id": bson.M{"$ne": userId}}

	cursor, err := collection.Find(ctx, filter, options.Find().SetProjection(publicUserProjection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []entity.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}
