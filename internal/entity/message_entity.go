package entity

import (
	"errors"
	"time"
)

type MessageType string

const (
	MessageTypeDirect MessageType = "direct"
	MessageTypeGroup  MessageType = "group"
)

var ErrInvalidMessage = errors.New("invalid message")

type Message struct {
	Id          string      `bson:"_id" json:"_id"`
	SenderId    string      `bson:"senderId" json:"senderId"`
	ReceiverId  string      `bson:"receiverId,omitempty" json:"receiverId,omitempty"`
	GroupId     string      `bson:"groupId,omitempty" json:"groupId,omitempty"`
	MessageType MessageType `bson:"messageType" json:"messageType"`
	Text        string      `bson:"text,omitempty" json:"text,omitempty"`
	Image       string      `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the direct/group discriminator against the reference fields.
func (m Message) Validate() error {
	if m.SenderId == "" {
		return ErrInvalidMessage
	}
	switch m.MessageType {
	case MessageTypeDirect:
		if m.ReceiverId == "" || m.GroupId != "" {
			return ErrInvalidMessage
		}
	case MessageTypeGroup:
		if m.GroupId == "" || m.ReceiverId != "" {
			return ErrInvalidMessage
		}
	default:
		return ErrInvalidMessage
	}
	return nil
}

// MessageDetail is a message with sender, receiver and group resolved.
// The json names match the stored reference fields so clients read a
// populated object where they would otherwise get an id.
type MessageDetail struct {
	Id          string        `json:"_id"`
	Sender      UserSummary   `json:"senderId"`
	Receiver    *UserSummary  `json:"receiverId,omitempty"`
	Group       *GroupSummary `json:"groupId,omitempty"`
	MessageType MessageType   `json:"messageType"`
	Text        string        `json:"text,omitempty"`
	Image       string        `json:"image,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}
