package usecase

import "time"

const (
	DirectChatTTL    = 600 * time.Second
	GroupMessagesTTL = 300 * time.Second
)

// DirectChatKey is directional: the conversation between a and b is cached
// separately for each viewer.
func DirectChatKey(userId, otherUserId string) string {
	return "chat:" + userId + ":" + otherUserId
}

func GroupMessagesKey(groupId string) string {
	return "group_messages:" + groupId
}
