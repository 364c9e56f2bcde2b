package ws

// IHub is the realtime directory: it maps a user id to at most one live
// websocket client and delivers frames to it.
type IHub interface {
	Run()
	Stop()
	RegisterClient(client *UserClient)
	UnregisterClient(client *UserClient)
	SendToUser(userId string, message []byte) bool
	IsOnline(userId string) bool
	GetClientCount() int
	SetOnClientUnregister(callback func(client *UserClient) error)
}
