package http

import (
	"chatwire/infrastructure/media"
	wsDelivery "chatwire/internal/delivery/websocket"
	"chatwire/internal/entity"
	"chatwire/internal/mocks"
	"chatwire/internal/usecase"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticValidator map[string]string

func (v staticValidator) ValidateAccessToken(token string) (*entity.TokenClaims, error) {
	userId, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &entity.TokenClaims{UserId: userId}, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	router   *chi.Mux
	messages *mocks.MessageUsecaseMock
	groups   *mocks.GroupUsecaseMock
	users    *mocks.UserUsecaseMock
	store    *mocks.MediaStoreMock
	cacheErr error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		router:   chi.NewRouter(),
		messages: new(mocks.MessageUsecaseMock),
		groups:   new(mocks.GroupUsecaseMock),
		users:    new(mocks.UserUsecaseMock),
		store:    new(mocks.MediaStoreMock),
	}

	logger := zap.NewNop()
	health := NewHealthHandler(map[string]Pinger{
		"mongodb": pingFunc(func(context.Context) error { return nil }),
		"cache":   pingFunc(func(context.Context) error { return s.cacheErr }),
	}, logger)
	wsHandler := wsDelivery.NewWebsocketHandler(new(mocks.HubMock), s.users, UserIdFromContext, "", logger)

	MapHttpRoutes(
		s.router,
		NewHttpHandler(s.messages, s.groups, s.users, logger),
		NewMediaHandler(s.store, logger),
		health,
		wsHandler,
		NewAuthMiddleware(staticValidator{"token-alice": "alice"}, logger),
	)
	return s
}

func (s *testServer) do(method, target, body string, auth bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if auth {
		req.Header.Set("Authorization", "Bearer token-alice")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

var (
	sample = entity.MessageDetail{
		Id:          "m1",
		Sender:      entity.UserSummary{Id: "alice", FullName: "Alice"},
		Receiver:    &entity.UserSummary{Id: "bob", FullName: "Bob"},
		MessageType: entity.MessageTypeDirect,
		Text:        "hi",
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
)

func TestAuth_Required(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/api/messages/users", "/api/messages/bob", "/api/groups/user-groups"} {
		rec := s.do(http.MethodGet, target, "", false)
		require.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, msgInvalidToken, decodeError(t, rec))
}

func TestAuth_Cookie(t *testing.T) {
	s := newTestServer(t)
	s.users.On("ListContacts", mock.Anything, "alice").Return([]entity.User{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "token-alice"})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestAuth_QueryTokenOnlyForHandshake(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/messages/users?token=token-alice", "", false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUsersForSidebar(t *testing.T) {
	s := newTestServer(t)
	s.users.On("ListContacts", mock.Anything, "alice").Return([]entity.User{{Id: "bob", FullName: "Bob"}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/messages/users", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []entity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	require.Equal(t, "bob", users[0].Id)
}

func TestGetMessages(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("ListDirect", mock.Anything, "alice", "bob").Return([]entity.MessageDetail{sample}, nil).Once()

	rec := s.do(http.MethodGet, "/api/messages/bob", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.Equal(t, "m1", body[0]["_id"])
	require.Equal(t, "Alice", body[0]["senderId"].(map[string]any)["fullName"])
	require.Equal(t, "bob", body[0]["receiverId"].(map[string]any)["_id"])
	require.NotContains(t, body[0], "groupId")
}

func TestGetMessages_StoreFailureIsGeneric(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("ListDirect", mock.Anything, "alice", "bob").Return(nil, errors.New("mongo: connection refused")).Once()

	rec := s.do(http.MethodGet, "/api/messages/bob", "", true)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, msgInternalError, decodeError(t, rec))
}

func TestSendMessage(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("SendDirect", mock.Anything, "alice", "bob", entity.SendMessageRequest{Text: "hi"}).Return(sample, nil).Once()

	rec := s.do(http.MethodPost, "/api/messages/send/bob", `{"text":"hi"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got entity.MessageDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, sample, got)
}

func TestSendMessage_BadBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/messages/send/bob", `{"text":`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, msgInvalidBody, decodeError(t, rec))
	s.messages.AssertNotCalled(t, "SendDirect", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessage_InvalidImage(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("SendDirect", mock.Anything, "alice", "bob", mock.Anything).
		Return(nil, fmt.Errorf("upload image: %w", media.ErrInvalidImage)).Once()

	rec := s.do(http.MethodPost, "/api/messages/send/bob", `{"image":"data:text/plain;base64,aGk="}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGroupMessages(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("ListGroup", mock.Anything, "alice", "g1").Return([]entity.MessageDetail{}, nil).Once()

	rec := s.do(http.MethodGet, "/api/messages/group/g1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetGroupMessages_NotFoundOrNotMember(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("ListGroup", mock.Anything, "alice", "g9").Return(nil, usecase.ErrGroupNotFound).Once()

	rec := s.do(http.MethodGet, "/api/messages/group/g9", "", true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, usecase.ErrGroupNotFound.Error(), decodeError(t, rec))
}

func TestSendGroupMessage(t *testing.T) {
	s := newTestServer(t)

	groupMsg := sample
	groupMsg.Receiver = nil
	groupMsg.Group = &entity.GroupSummary{Id: "g1", Name: "Team"}
	groupMsg.MessageType = entity.MessageTypeGroup
	s.messages.On("SendGroup", mock.Anything, "alice", "g1", entity.SendMessageRequest{Text: "hi"}).Return(groupMsg, nil).Once()

	rec := s.do(http.MethodPost, "/api/messages/group/send/g1", `{"text":"hi"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Team", body["groupId"].(map[string]any)["name"])
	require.NotContains(t, body, "receiverId")
}

func TestSendGroupMessage_NotMember(t *testing.T) {
	s := newTestServer(t)
	s.messages.On("SendGroup", mock.Anything, "alice", "g9", mock.Anything).Return(nil, usecase.ErrGroupNotFound).Once()

	rec := s.do(http.MethodPost, "/api/messages/group/send/g9", `{"text":"hi"}`, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateGroup(t *testing.T) {
	s := newTestServer(t)

	req := entity.CreateGroupRequest{Name: "Team", MemberIds: []string{"bob"}}
	detail := entity.GroupDetail{
		Id:    "g1",
		Name:  "Team",
		Admin: entity.UserSummary{Id: "alice"},
		Members: []entity.GroupMemberDetail{
			{User: entity.UserSummary{Id: "alice"}, Role: entity.GroupRoleAdmin},
			{User: entity.UserSummary{Id: "bob"}, Role: entity.GroupRoleMember},
		},
		IsActive: true,
	}
	s.groups.On("Create", mock.Anything, "alice", req).Return(detail, nil).Once()

	rec := s.do(http.MethodPost, "/api/groups/create", `{"name":"Team","memberIds":["bob"]}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got entity.GroupDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, detail, got)
}

func TestCreateGroup_EmptyBody(t *testing.T) {
	s := newTestServer(t)
	s.groups.On("Create", mock.Anything, "alice", entity.CreateGroupRequest{}).Return(entity.GroupDetail{Id: "g2", Name: entity.DefaultGroupName}, nil).Once()

	rec := s.do(http.MethodPost, "/api/groups/create", "", true)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateGroup_UnknownMembers(t *testing.T) {
	s := newTestServer(t)
	s.groups.On("Create", mock.Anything, "alice", mock.Anything).Return(nil, usecase.ErrUnknownMembers).Once()

	rec := s.do(http.MethodPost, "/api/groups/create", `{"memberIds":["ghost"]}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, usecase.ErrUnknownMembers.Error(), decodeError(t, rec))
}

func TestGetUserGroups(t *testing.T) {
	s := newTestServer(t)
	s.groups.On("ListForUser", mock.Anything, "alice").Return([]entity.GroupDetail{{Id: "g1", Name: "Team"}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/groups/user-groups", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []entity.GroupDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
}

func TestGetImage(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Open", mock.Anything, "img1").
		Return(io.NopCloser(strings.NewReader("\x89PNG")), media.Info{ContentType: "image/png", Length: 4}, nil).Once()

	rec := s.do(http.MethodGet, "/api/media/img1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "4", rec.Header().Get("Content-Length"))
	require.Equal(t, "\x89PNG", rec.Body.String())
}

func TestGetImage_NotFound(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Open", mock.Anything, "missing").Return(nil, nil, media.ErrImageNotFound).Once()

	rec := s.do(http.MethodGet, "/api/media/missing", "", false)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","checks":{"cache":"up","mongodb":"up"}}`, rec.Body.String())

	s.cacheErr = errors.New("redis down")
	rec = s.do(http.MethodGet, "/healthz", "", false)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"status":"unavailable","checks":{"cache":"down","mongodb":"up"}}`, rec.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWebsocket_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/ws", "", false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
