package usecase

import (
	"chatwire/infrastructure/events"
	"chatwire/internal/entity"
	"chatwire/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownMembers is returned when member validation is enabled and a
// requested member id does not match a stored user.
var ErrUnknownMembers = errors.New("one or more members do not exist")

type GroupUsecase interface {
	Create(ctx context.Context, adminId string, req entity.CreateGroupRequest) (entity.GroupDetail, error)
	ListForUser(ctx context.Context, userId string) ([]entity.GroupDetail, error)
}

type groupUsecase struct {
	groupRepo       repository.GroupRepository
	userRepo        repository.UserRepository
	resolver        identityResolver
	publisher       events.Publisher
	validateMembers bool
	logger          *zap.Logger
}

func NewGroupUseCase(
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	validateMembers bool,
	logger *zap.Logger,
) GroupUsecase {
	return &groupUsecase{
		groupRepo:       groupRepo,
		userRepo:        userRepo,
		resolver:        identityResolver{userRepo: userRepo},
		publisher:       publisher,
		validateMembers: validateMembers,
		logger:          logger,
	}
}

// Create stores a new group administered by adminId. The admin is always the
// first member; duplicate and blank member ids are dropped.
func (u *groupUsecase) Create(ctx context.Context, adminId string, req entity.CreateGroupRequest) (entity.GroupDetail, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = entity.DefaultGroupName
	}

	members := groupMembers(adminId, req.MemberIds)

	if u.validateMembers && len(members) > 1 {
		others := make([]string, 0, len(members)-1)
		for _, m := range members[1:] {
			others = append(others, m.User)
		}
		users, err := u.userRepo.Index(ctx, entity.UserIndexFilter{Ids: others})
		if err != nil {
			return entity.GroupDetail{}, fmt.Errorf("check group members: %w", err)
		}
		if len(users) != len(others) {
			return entity.GroupDetail{}, ErrUnknownMembers
		}
	}

	groupId, err := u.groupRepo.Create(ctx, entity.Group{
		Name:    name,
		Admin:   adminId,
		Members: members,
	})
	if err != nil {
		return entity.GroupDetail{}, fmt.Errorf("create group: %w", err)
	}

	group, err := u.groupRepo.Get(ctx, groupId)
	if err != nil {
		return entity.GroupDetail{}, fmt.Errorf("get group %s: %w", groupId, err)
	}

	details, err := u.resolver.groups(ctx, []entity.Group{group})
	if err != nil {
		return entity.GroupDetail{}, err
	}
	detail := details[0]

	err = u.publisher.Publish(ctx, events.RoutingGroupCreated, entity.DomainEvent{
		Type:       events.RoutingGroupCreated,
		OccurredAt: time.Now().UnixMilli(),
		ActorId:    adminId,
		Payload:    detail,
	})
	if err != nil {
		u.logger.Warn("publish domain event", zap.String("routing_key", events.RoutingGroupCreated), zap.Error(err))
	}

	return detail, nil
}

// ListForUser returns the active groups userId belongs to, most recently
// updated first.
func (u *groupUsecase) ListForUser(ctx context.Context, userId string) ([]entity.GroupDetail, error) {
	groups, err := u.groupRepo.ListActiveByMember(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	return u.resolver.groups(ctx, groups)
}

func groupMembers(adminId string, memberIds []string) []entity.GroupMember {
	members := []entity.GroupMember{{User: adminId, Role: entity.GroupRoleAdmin}}
	seen := map[string]struct{}{adminId: {}}

	for _, id := range memberIds {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, entity.GroupMember{User: id, Role: entity.GroupRoleMember})
	}

	return members
}
