package usecase

import (
	"chatwire/infrastructure/cache"
	"chatwire/infrastructure/events"
	"chatwire/infrastructure/media"
	"chatwire/infrastructure/ws"
	"chatwire/internal/entity"
	"chatwire/internal/observability"
	"chatwire/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrGroupNotFound covers both a missing group and a caller who is not an
// active member, so group existence is not revealed to outsiders.
var ErrGroupNotFound = errors.New("group not found or access denied")

type MessageUsecase interface {
	ListDirect(ctx context.Context, userId, otherUserId string) ([]entity.MessageDetail, error)
	SendDirect(ctx context.Context, senderId, receiverId string, req entity.SendMessageRequest) (entity.MessageDetail, error)
	ListGroup(ctx context.Context, userId, groupId string) ([]entity.MessageDetail, error)
	SendGroup(ctx context.Context, senderId, groupId string, req entity.SendMessageRequest) (entity.MessageDetail, error)
}

type messageUsecase struct {
	messageRepo repository.MessageRepository
	groupRepo   repository.GroupRepository
	resolver    identityResolver
	cache       cache.ICache
	hub         ws.IHub
	uploader    media.IUploader
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	cache cache.ICache,
	hub ws.IHub,
	uploader media.IUploader,
	publisher events.Publisher,
	logger *zap.Logger,
) MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		groupRepo:   groupRepo,
		resolver:    identityResolver{userRepo: userRepo},
		cache:       cache,
		hub:         hub,
		uploader:    uploader,
		publisher:   publisher,
		logger:      logger,
	}
}

// ListDirect returns the direct conversation between userId and otherUserId,
// served from the viewer's cache entry when present.
func (u *messageUsecase) ListDirect(ctx context.Context, userId, otherUserId string) ([]entity.MessageDetail, error) {
	key := DirectChatKey(userId, otherUserId)

	return u.readThrough(ctx, "direct", key, DirectChatTTL, func() ([]entity.MessageDetail, error) {
		messages, err := u.messageRepo.ListDirect(ctx, userId, otherUserId)
		if err != nil {
			return nil, fmt.Errorf("list direct messages: %w", err)
		}
		return u.resolver.messages(ctx, messages, nil)
	})
}

func (u *messageUsecase) SendDirect(ctx context.Context, senderId, receiverId string, req entity.SendMessageRequest) (entity.MessageDetail, error) {
	imageUrl, err := u.uploadImage(ctx, req.Image)
	if err != nil {
		return entity.MessageDetail{}, err
	}

	detail, err := u.persist(ctx, entity.Message{
		SenderId:    senderId,
		ReceiverId:  receiverId,
		MessageType: entity.MessageTypeDirect,
		Text:        req.Text,
		Image:       imageUrl,
	}, nil)
	if err != nil {
		return entity.MessageDetail{}, err
	}

	// both viewers' entries, so the next read on either side hits the store
	if err := u.cache.Delete(ctx, DirectChatKey(senderId, receiverId), DirectChatKey(receiverId, senderId)); err != nil {
		return entity.MessageDetail{}, fmt.Errorf("invalidate direct chat cache: %w", err)
	}

	if frame, ok := u.encodeEvent(entity.EventNewMessage, detail); ok {
		u.push(receiverId, entity.EventNewMessage, frame)
	}
	u.publish(ctx, events.RoutingDirectMessageCreated, senderId, detail)

	return detail, nil
}

// ListGroup returns a group's messages oldest first. The cache entry is shared
// by every member.
func (u *messageUsecase) ListGroup(ctx context.Context, userId, groupId string) ([]entity.MessageDetail, error) {
	group, err := u.memberGroup(ctx, groupId, userId)
	if err != nil {
		return nil, err
	}

	summary := group.Summary()
	return u.readThrough(ctx, "group", GroupMessagesKey(groupId), GroupMessagesTTL, func() ([]entity.MessageDetail, error) {
		messages, err := u.messageRepo.ListByGroup(ctx, groupId)
		if err != nil {
			return nil, fmt.Errorf("list group messages: %w", err)
		}
		return u.resolver.messages(ctx, messages, &summary)
	})
}

func (u *messageUsecase) SendGroup(ctx context.Context, senderId, groupId string, req entity.SendMessageRequest) (entity.MessageDetail, error) {
	group, err := u.memberGroup(ctx, groupId, senderId)
	if err != nil {
		return entity.MessageDetail{}, err
	}

	imageUrl, err := u.uploadImage(ctx, req.Image)
	if err != nil {
		return entity.MessageDetail{}, err
	}

	summary := group.Summary()
	detail, err := u.persist(ctx, entity.Message{
		SenderId:    senderId,
		GroupId:     groupId,
		MessageType: entity.MessageTypeGroup,
		Text:        req.Text,
		Image:       imageUrl,
	}, &summary)
	if err != nil {
		return entity.MessageDetail{}, err
	}

	if err := u.cache.Delete(ctx, GroupMessagesKey(groupId)); err != nil {
		return entity.MessageDetail{}, fmt.Errorf("invalidate group messages cache: %w", err)
	}

	// the sender is a member too and receives its own event
	if frame, ok := u.encodeEvent(entity.EventNewGroupMessage, detail); ok {
		for _, memberId := range group.MemberIds() {
			u.push(memberId, entity.EventNewGroupMessage, frame)
		}
	}
	u.publish(ctx, events.RoutingGroupMessageCreated, senderId, detail)

	return detail, nil
}

func (u *messageUsecase) memberGroup(ctx context.Context, groupId, userId string) (entity.Group, error) {
	group, err := u.groupRepo.GetActiveForMember(ctx, groupId, userId)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return entity.Group{}, ErrGroupNotFound
		}
		return entity.Group{}, fmt.Errorf("get group %s: %w", groupId, err)
	}
	return group, nil
}

func (u *messageUsecase) uploadImage(ctx context.Context, image string) (string, error) {
	if image == "" {
		return "", nil
	}
	url, err := u.uploader.Upload(ctx, image)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// persist stores the message, then reads it back and resolves identities.
func (u *messageUsecase) persist(ctx context.Context, message entity.Message, group *entity.GroupSummary) (entity.MessageDetail, error) {
	messageId, err := u.messageRepo.Create(ctx, message)
	if err != nil {
		return entity.MessageDetail{}, fmt.Errorf("create message: %w", err)
	}

	stored, err := u.messageRepo.Get(ctx, messageId)
	if err != nil {
		return entity.MessageDetail{}, fmt.Errorf("get message %s: %w", messageId, err)
	}

	details, err := u.resolver.messages(ctx, []entity.Message{stored}, group)
	if err != nil {
		return entity.MessageDetail{}, err
	}
	return details[0], nil
}

// readThrough serves key from the cache, or loads it, caches it for ttl and
// returns it. Store and cache failures are returned as-is.
func (u *messageUsecase) readThrough(ctx context.Context, kind, key string, ttl time.Duration, load func() ([]entity.MessageDetail, error)) ([]entity.MessageDetail, error) {
	cached, found, err := u.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	if found {
		var messages []entity.MessageDetail
		if err := json.Unmarshal([]byte(cached), &messages); err == nil {
			observability.IncCacheLookup(kind, true)
			if messages == nil {
				messages = []entity.MessageDetail{}
			}
			return messages, nil
		}
		u.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}
	observability.IncCacheLookup(kind, false)

	messages, err := load()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := u.cache.Set(ctx, key, string(payload), ttl); err != nil {
		return nil, fmt.Errorf("cache set %s: %w", key, err)
	}

	return messages, nil
}

func (u *messageUsecase) encodeEvent(event string, detail entity.MessageDetail) ([]byte, bool) {
	frame, err := json.Marshal(entity.Event{Event: event, Data: detail})
	if err != nil {
		u.logger.Error("encode realtime event", zap.String("event", event), zap.Error(err))
		return nil, false
	}
	return frame, true
}

// push delivers frame when the user has a live connection. Offline users are
// not an error; they see the message on their next read.
func (u *messageUsecase) push(userId, event string, frame []byte) {
	delivered := u.hub.SendToUser(userId, frame)
	observability.IncRealtimePush(event, delivered)
}

func (u *messageUsecase) publish(ctx context.Context, routingKey, actorId string, payload any) {
	err := u.publisher.Publish(ctx, routingKey, entity.DomainEvent{
		Type:       routingKey,
		OccurredAt: time.Now().UnixMilli(),
		ActorId:    actorId,
		Payload:    payload,
	})
	if err != nil {
		u.logger.Warn("publish domain event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
