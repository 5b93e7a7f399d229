package core

// Frame is a raw encoded event, one websocket text message.
type Frame []byte

// SignalConnection abstracts the event transport of one connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
