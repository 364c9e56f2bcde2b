package entity

import "time"

const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"

	DefaultGroupName = "New Group"
)

type Group struct {
	Id        string        `bson:"_id" json:"_id"`
	Name      string        `bson:"name" json:"name"`
	Admin     string        `bson:"admin" json:"admin"`
	Members   []GroupMember `bson:"members" json:"members"`
	IsActive  bool          `bson:"isActive" json:"isActive"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type GroupMember struct {
	User string `bson:"user" json:"user"`
	Role string `bson:"role" json:"role"`
}

// HasMember reports whether userId appears in the member list.
func (g Group) HasMember(userId string) bool {
	for _, m := range g.Members {
		if m.User == userId {
			return true
		}
	}
	return false
}

// MemberIds returns the member user ids in membership order.
func (g Group) MemberIds() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.User)
	}
	return ids
}

func (g Group) Summary() GroupSummary {
	return GroupSummary{Id: g.Id, Name: g.Name}
}

type GroupSummary struct {
	Id   string `json:"_id"`
	Name string `json:"name"`
}

// GroupDetail is a group with admin and member identities resolved.
type GroupDetail struct {
	Id        string              `json:"_id"`
	Name      string              `json:"name"`
	Admin     UserSummary         `json:"admin"`
	Members   []GroupMemberDetail `json:"members"`
	IsActive  bool                `json:"isActive"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type GroupMemberDetail struct {
	User UserSummary `json:"user"`
	Role string      `json:"role"`
}

type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIds []string `json:"memberIds"`
}
