package mocks

import (
	"chatwire/infrastructure/media"
	"chatwire/infrastructure/ws"
	"chatwire/internal/entity"
	"chatwire/internal/repository"
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Get(ctx context.Context, userId string) (entity.User, error) {
	args := m.Called(ctx, userId)
	var user entity.User
	if val := args.Get(0); val != nil {
		user = val.(entity.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Index(ctx context.Context, filter entity.UserIndexFilter) ([]entity.User, error) {
	args := m.Called(ctx, filter)
	var users []entity.User
	if val := args.Get(0); val != nil {
		users = val.([]entity.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) ListExcept(ctx context.Context, userId string) ([]entity.User, error) {
	args := m.Called(ctx, userId)
	var users []entity.User
	if val := args.Get(0); val != nil {
		users = val.([]entity.User)
	}
	return users, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) Create(ctx context.Context, group entity.Group) (string, error) {
	args := m.Called(ctx, group)
	return args.String(0), args.Error(1)
}

func (m *GroupRepositoryMock) Get(ctx context.Context, groupId string) (entity.Group, error) {
	args := m.Called(ctx, groupId)
	var group entity.Group
	if val := args.Get(0); val != nil {
		group = val.(entity.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetActiveForMember(ctx context.Context, groupId, userId string) (entity.Group, error) {
	args := m.Called(ctx, groupId, userId)
	var group entity.Group
	if val := args.Get(0); val != nil {
		group = val.(entity.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) ListActiveByMember(ctx context.Context, userId string) ([]entity.Group, error) {
	args := m.Called(ctx, userId)
	var groups []entity.Group
	if val := args.Get(0); val != nil {
		groups = val.([]entity.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, message entity.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *MessageRepositoryMock) Get(ctx context.Context, messageId string) (entity.Message, error) {
	args := m.Called(ctx, messageId)
	var message entity.Message
	if val := args.Get(0); val != nil {
		message = val.(entity.Message)
	}
	return message, args.Error(1)
}

func (m *MessageRepositoryMock) ListDirect(ctx context.Context, userId, otherUserId string) ([]entity.Message, error) {
	args := m.Called(ctx, userId, otherUserId)
	var messages []entity.Message
	if val := args.Get(0); val != nil {
		messages = val.([]entity.Message)
	}
	return messages, args.Error(1)
}

func (m *MessageRepositoryMock) ListByGroup(ctx context.Context, groupId string) ([]entity.Message, error) {
	args := m.Called(ctx, groupId)
	var messages []entity.Message
	if val := args.Get(0); val != nil {
		messages = val.([]entity.Message)
	}
	return messages, args.Error(1)
}

func (m *MessageRepositoryMock) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type HubMock struct {
	mock.Mock
}

func (m *HubMock) Run()  {}
func (m *HubMock) Stop() {}

func (m *HubMock) RegisterClient(client *ws.UserClient) {
	m.Called(client)
}

func (m *HubMock) UnregisterClient(client *ws.UserClient) {
	m.Called(client)
}

func (m *HubMock) SendToUser(userId string, message []byte) bool {
	args := m.Called(userId, message)
	return args.Bool(0)
}

func (m *HubMock) IsOnline(userId string) bool {
	args := m.Called(userId)
	return args.Bool(0)
}

func (m *HubMock) GetClientCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *HubMock) SetOnClientUnregister(callback func(client *ws.UserClient) error) {}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) Upload(ctx context.Context, image string) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

type MediaStoreMock struct {
	UploaderMock
}

func (m *MediaStoreMock) Open(ctx context.Context, id string) (io.ReadCloser, media.Info, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if val := args.Get(0); val != nil {
		rc = val.(io.ReadCloser)
	}
	var info media.Info
	if val := args.Get(1); val != nil {
		info = val.(media.Info)
	}
	return rc, info, args.Error(2)
}

var (
	_ repository.UserRepository    = (*UserRepositoryMock)(nil)
	_ repository.GroupRepository   = (*GroupRepositoryMock)(nil)
	_ repository.MessageRepository = (*MessageRepositoryMock)(nil)
	_ ws.IHub                      = (*HubMock)(nil)
	_ media.IUploader              = (*UploaderMock)(nil)
	_ media.IStore                 = (*MediaStoreMock)(nil)
)
