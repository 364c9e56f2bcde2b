package mocks

import (
	"chatwire/internal/entity"
	"chatwire/internal/usecase"
	"context"

	"github.com/stretchr/testify/mock"
)

type MessageUsecaseMock struct {
	mock.Mock
}

func (m *MessageUsecaseMock) ListDirect(ctx context.Context, userId, otherUserId string) ([]entity.MessageDetail, error) {
	args := m.Called(ctx, userId, otherUserId)
	var messages []entity.MessageDetail
	if val := args.Get(0); val != nil {
		messages = val.([]entity.MessageDetail)
	}
	return messages, args.Error(1)
}

func (m *MessageUsecaseMock) SendDirect(ctx context.Context, senderId, receiverId string, req entity.SendMessageRequest) (entity.MessageDetail, error) {
	args := m.Called(ctx, senderId, receiverId, req)
	var message entity.MessageDetail
	if val := args.Get(0); val != nil {
		message = val.(entity.MessageDetail)
	}
	return message, args.Error(1)
}

func (m *MessageUsecaseMock) ListGroup(ctx context.Context, userId, groupId string) ([]entity.MessageDetail, error) {
	args := m.Called(ctx, userId, groupId)
	var messages []entity.MessageDetail
	if val := args.Get(0); val != nil {
		messages = val.([]entity.MessageDetail)
	}
	return messages, args.Error(1)
}

func (m *MessageUsecaseMock) SendGroup(ctx context.Context, senderId, groupId string, req entity.SendMessageRequest) (entity.MessageDetail, error) {
	args := m.Called(ctx, senderId, groupId, req)
	var message entity.MessageDetail
	if val := args.Get(0); val != nil {
		message = val.(entity.MessageDetail)
	}
	return message, args.Error(1)
}

type GroupUsecaseMock struct {
	mock.Mock
}

func (m *GroupUsecaseMock) Create(ctx context.Context, adminId string, req entity.CreateGroupRequest) (entity.GroupDetail, error) {
	args := m.Called(ctx, adminId, req)
	var group entity.GroupDetail
	if val := args.Get(0); val != nil {
		group = val.(entity.GroupDetail)
	}
	return group, args.Error(1)
}

func (m *GroupUsecaseMock) ListForUser(ctx context.Context, userId string) ([]entity.GroupDetail, error) {
	args := m.Called(ctx, userId)
	var groups []entity.GroupDetail
	if val := args.Get(0); val != nil {
		groups = val.([]entity.GroupDetail)
	}
	return groups, args.Error(1)
}

type UserUsecaseMock struct {
	mock.Mock
}

func (m *UserUsecaseMock) Get(ctx context.Context, userId string) (entity.User, error) {
	args := m.Called(ctx, userId)
	var user entity.User
	if val := args.Get(0); val != nil {
		user = val.(entity.User)
	}
	return user, args.Error(1)
}

func (m *UserUsecaseMock) ListContacts(ctx context.Context, userId string) ([]entity.User, error) {
	args := m.Called(ctx, userId)
	var users []entity.User
	if val := args.Get(0); val != nil {
		users = val.([]entity.User)
	}
	return users, args.Error(1)
}

var (
	_ usecase.MessageUsecase = (*MessageUsecaseMock)(nil)
	_ usecase.GroupUsecase   = (*GroupUsecaseMock)(nil)
	_ usecase.UserUsecase    = (*UserUsecaseMock)(nil)
)
