package core

// Frame is a raw outbound payload, already serialized.
type Frame []byte

// SignalConnection abstracts the messaging transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports fan-out delivery stats to the caller.
type PublishResult struct {
	SentTo  int
	Dropped int
}
