package network

// Sender queues a message for delivery to one client
type Sender interface {
	SendMessage(msg interface{}) error
}
