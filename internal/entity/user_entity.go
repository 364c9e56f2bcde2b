package entity

import "time"

type User struct {
	Id         string    `bson:"_id" json:"_id"`
	FullName   string    `bson:"fullName" json:"fullName"`
	Email      string    `bson:"email" json:"email"`
	ProfilePic string    `bson:"profilePic" json:"profilePic"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the public identity attached to groups and messages.
type UserSummary struct {
	Id         string `bson:"_id" json:"_id"`
	FullName   string `bson:"fullName" json:"fullName"`
	ProfilePic string `bson:"profilePic" json:"profilePic"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		Id:         u.Id,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
}

type UserIndexFilter struct {
	Ids []string `bson:"ids"`
}
