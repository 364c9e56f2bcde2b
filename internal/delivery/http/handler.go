package http

import (
	"chatwire/infrastructure/media"
	"chatwire/internal/entity"
	"chatwire/internal/usecase"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; images arrive inline as data URLs.
const maxBodyBytes = 10 << 20

type HttpHandler struct {
	messageUc usecase.MessageUsecase
	groupUc   usecase.GroupUsecase
	userUc    usecase.UserUsecase
	logger    *zap.Logger
}

func NewHttpHandler(messageUc usecase.MessageUsecase, groupUc usecase.GroupUsecase, userUc usecase.UserUsecase, logger *zap.Logger) *HttpHandler {
	return &HttpHandler{
		messageUc: messageUc,
		groupUc:   groupUc,
		userUc:    userUc,
		logger:    logger,
	}
}

// Method Post /groups/create
func (h *HttpHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req entity.CreateGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, err := h.groupUc.Create(r.Context(), userId, req)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownMembers) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.serverError(w, r, "create group", userId, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

// Method Get /groups/user-groups
func (h *HttpHandler) GetUserGroups(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	groups, err := h.groupUc.ListForUser(r.Context(), userId)
	if err != nil {
		h.serverError(w, r, "list groups", userId, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

// Method Get /messages/users
func (h *HttpHandler) GetUsersForSidebar(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.userUc.ListContacts(r.Context(), userId)
	if err != nil {
		h.serverError(w, r, "list contacts", userId, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Method Get /messages/{id}
func (h *HttpHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	messages, err := h.messageUc.ListDirect(r.Context(), userId, chi.URLParam(r, "id"))
	if err != nil {
		h.serverError(w, r, "list direct messages", userId, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Method Post /messages/send/{id}
func (h *HttpHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req entity.SendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	message, err := h.messageUc.SendDirect(r.Context(), userId, chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.serverError(w, r, "send direct message", userId, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// Method Get /messages/group/{groupId}
func (h *HttpHandler) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	messages, err := h.messageUc.ListGroup(r.Context(), userId, chi.URLParam(r, "groupId"))
	if err != nil {
		if errors.Is(err, usecase.ErrGroupNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.serverError(w, r, "list group messages", userId, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Method Post /messages/group/send/{groupId}
func (h *HttpHandler) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req entity.SendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	message, err := h.messageUc.SendGroup(r.Context(), userId, chi.URLParam(r, "groupId"), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrGroupNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, media.ErrInvalidImage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.serverError(w, r, "send group message", userId, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (h *HttpHandler) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	}
	return userId, ok
}

// decode reads a JSON body into dst. An empty body leaves dst zero-valued.
func (h *HttpHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func (h *HttpHandler) serverError(w http.ResponseWriter, r *http.Request, op, userId string, err error) {
	h.logger.Error(op,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("route", routePattern(r)),
		zap.String("user_id", userId),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msgInternalError)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}
