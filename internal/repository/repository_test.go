package repository

import (
	"chatwire/internal/entity"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newTestDB(t *testing.T) *mongo.Database {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("chatwire_repo_" + uuid.New().String()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func seedUsers(t *testing.T, db *mongo.Database, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := db.Collection("users").InsertOne(context.Background(), bson.M{
			"_id":        id,
			"fullName":   "User " + id,
			"email":      id + "@example.com",
			"password":   "$2a$10$hash",
			"profilePic": "",
		})
		require.NoError(t, err)
	}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedUsers(t, db, "alice", "bob", "carol")
	repo := NewUserRepository(db)

	user, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "User alice", user.FullName)

	_, err = repo.Get(ctx, "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)

	users, err := repo.Index(ctx, entity.UserIndexFilter{Ids: []string{"bob", "ghost", "carol"}})
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = repo.Index(ctx, entity.UserIndexFilter{})
	require.NoError(t, err)
	require.Empty(t, users)

	contacts, err := repo.ListExcept(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	for _, c := range contacts {
		require.NotEqual(t, "alice", c.Id)
	}

	var raw bson.M
	require.NoError(t, db.Collection("users").FindOne(ctx, bson.M{"_id": "alice"}).Decode(&raw))
	require.Contains(t, raw, "password")
}

func TestGroupRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGroupRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	groupId, err := repo.Create(ctx, entity.Group{
		Name:  "Team",
		Admin: "alice",
		Members: []entity.GroupMember{
			{User: "alice", Role: entity.GroupRoleAdmin},
			{User: "bob", Role: entity.GroupRoleMember},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, groupId)

	group, err := repo.Get(ctx, groupId)
	require.NoError(t, err)
	require.True(t, group.IsActive)
	require.Equal(t, []string{"alice", "bob"}, group.MemberIds())
	require.False(t, group.CreatedAt.IsZero())

	_, err = repo.GetActiveForMember(ctx, groupId, "bob")
	require.NoError(t, err)

	_, err = repo.GetActiveForMember(ctx, groupId, "mallory")
	require.ErrorIs(t, err, ErrGroupNotFound)

	_, err = repo.GetActiveForMember(ctx, "missing", "bob")
	require.ErrorIs(t, err, ErrGroupNotFound)

	_, err = db.Collection("groups").UpdateByID(ctx, groupId, bson.M{"$set": bson.M{"isActive": false}})
	require.NoError(t, err)
	_, err = repo.GetActiveForMember(ctx, groupId, "bob")
	require.ErrorIs(t, err, ErrGroupNotFound)

	groups, err := repo.ListActiveByMember(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestGroupRepository_ListOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGroupRepository(db)

	members := []entity.GroupMember{{User: "alice", Role: entity.GroupRoleAdmin}}
	first, err := repo.Create(ctx, entity.Group{Name: "first", Admin: "alice", Members: members})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := repo.Create(ctx, entity.Group{Name: "second", Admin: "alice", Members: members})
	require.NoError(t, err)

	groups, err := repo.ListActiveByMember(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, second, groups[0].Id)
	require.Equal(t, first, groups[1].Id)
}

func TestMessageRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewMessageRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	direct := func(from, to, text string) entity.Message {
		return entity.Message{SenderId: from, ReceiverId: to, MessageType: entity.MessageTypeDirect, Text: text}
	}

	m1, err := repo.Create(ctx, direct("alice", "bob", "one"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, direct("bob", "alice", "two"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, direct("alice", "carol", "other"))
	require.NoError(t, err)

	stored, err := repo.Get(ctx, m1)
	require.NoError(t, err)
	require.Equal(t, "one", stored.Text)
	require.Empty(t, stored.GroupId)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMessageNotFound)

	ab, err := repo.ListDirect(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, ab, 2)

	ba, err := repo.ListDirect(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, ba, 2)

	none, err := repo.ListDirect(ctx, "bob", "carol")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	_, err = repo.Create(ctx, entity.Message{SenderId: "alice", MessageType: entity.MessageTypeDirect})
	require.ErrorIs(t, err, entity.ErrInvalidMessage)
}

func TestMessageRepository_GroupOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewMessageRepository(db)

	for _, text := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, entity.Message{SenderId: "alice", GroupId: "g1", MessageType: entity.MessageTypeGroup, Text: text})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := repo.Create(ctx, entity.Message{SenderId: "alice", GroupId: "g2", MessageType: entity.MessageTypeGroup, Text: "elsewhere"})
	require.NoError(t, err)

	messages, err := repo.ListByGroup(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, "a", messages[0].Text)
	require.Equal(t, "c", messages[2].Text)
}
