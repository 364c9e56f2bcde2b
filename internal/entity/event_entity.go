package entity

const (
	EventNewMessage      = "newMessage"
	EventNewGroupMessage = "newGroupMessage"
)

// Event is the frame pushed to a connected websocket client.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// DomainEvent is published to the message broker after a successful write.
type DomainEvent struct {
	Type       string `json:"type"`
	OccurredAt int64  `json:"occurredAt"`
	ActorId    string `json:"actorId"`
	Payload    any    `json:"payload"`
}
