package usecase

import (
	"chatwire/internal/entity"
	"chatwire/internal/repository"
	"context"
	"fmt"
)

// identityResolver replaces user ids with the public identity of each user.
// Ids that no longer resolve keep only the id.
type identityResolver struct {
	userRepo repository.UserRepository
}

func (r identityResolver) summaries(ctx context.Context, ids []string) (map[string]entity.UserSummary, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	out := make(map[string]entity.UserSummary, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	users, err := r.userRepo.Index(ctx, entity.UserIndexFilter{Ids: unique})
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	for _, user := range users {
		out[user.Id] = user.Summary()
	}
	return out, nil
}

func summaryOf(summaries map[string]entity.UserSummary, id string) entity.UserSummary {
	if s, ok := summaries[id]; ok {
		return s
	}
	return entity.UserSummary{Id: id}
}

// messages resolves sender and receiver. group, when set, is attached to every
// message as its resolved group reference.
func (r identityResolver) messages(ctx context.Context, messages []entity.Message, group *entity.GroupSummary) ([]entity.MessageDetail, error) {
	ids := make([]string, 0, len(messages)*2)
	for _, m := range messages {
		ids = append(ids, m.SenderId, m.ReceiverId)
	}

	summaries, err := r.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]entity.MessageDetail, 0, len(messages))
	for _, m := range messages {
		detail := entity.MessageDetail{
			Id:          m.Id,
			Sender:      summaryOf(summaries, m.SenderId),
			MessageType: m.MessageType,
			Text:        m.Text,
			Image:       m.Image,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
		if m.ReceiverId != "" {
			receiver := summaryOf(summaries, m.ReceiverId)
			detail.Receiver = &receiver
		}
		if m.GroupId != "" {
			g := entity.GroupSummary{Id: m.GroupId}
			if group != nil {
				g = *group
			}
			detail.Group = &g
		}
		details = append(details, detail)
	}

	return details, nil
}

func (r identityResolver) groups(ctx context.Context, groups []entity.Group) ([]entity.GroupDetail, error) {
	var ids []string
	for _, g := range groups {
		ids = append(ids, g.Admin)
		ids = append(ids, g.MemberIds()...)
	}

	summaries, err := r.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]entity.GroupDetail, 0, len(groups))
	for _, g := range groups {
		members := make([]entity.GroupMemberDetail, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, entity.GroupMemberDetail{
				User: summaryOf(summaries, m.User),
				Role: m.Role,
			})
		}
		details = append(details, entity.GroupDetail{
			Id:        g.Id,
			Name:      g.Name,
			Admin:     summaryOf(summaries, g.Admin),
			Members:   members,
			IsActive:  g.IsActive,
			CreatedAt: g.CreatedAt,
			UpdatedAt: g.UpdatedAt,
		})
	}

	return details, nil
}
