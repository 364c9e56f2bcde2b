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

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(ctx context.Context, message entity.Message) (string, error)
	Get(ctx context.Context, messageId string) (entity.Message, error)
	ListDirect(ctx context.Context, userId, otherUserId string) ([]entity.Message, error)
	ListByGroup(ctx context.Context, groupId string) ([]entity.Message, error)
	EnsureIndexes(ctx context.Context) error
}

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Create(ctx context.Context, message entity.Message) (string, error) {
	if err := message.Validate(); err != nil {
		return "", err
	}

	collection := r.db.Collection("messages")
	message.Id = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Millisecond)
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err := collection.InsertOne(ctx, message)
	if err != nil {
		return "", err
	}

	return message.Id, nil
}

func (r *messageRepository) Get(ctx context.Context, messageId string) (entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId}

	var message entity.Message
	err := collection.FindOne(ctx, filter).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Message{}, ErrMessageNotFound
		}
		return entity.Message{}, err
	}

	return message, nil
}

// ListDirect returns the direct messages exchanged between two users in both
// directions, in store order.
func (r *messageRepository) ListDirect(ctx context.Context, userId, otherUserId string) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{
		"$or": bson.A{
			bson.M{"senderId": userId, "receiverId": otherUserId, "messageType": entity.MessageTypeDirect},
			bson.M{"senderId": otherUserId, "receiverId": userId, "messageType": entity.MessageTypeDirect},
		},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []entity.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// ListByGroup returns the messages of a group, oldest first.
func (r *messageRepository) ListByGroup(ctx context.Context, groupId string) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{
		"groupId":     groupId,
		"messageType": entity.MessageTypeGroup,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []entity.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection("messages")
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}}},
		{Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}
