package arena

// Conn is the write side of a watcher connection.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Watch: a presentation client subscribing to state snapshots.
type Watch struct {
	Conn  Conn
	Reply chan<- WatchResult
}

type WatchResult struct {
	ClientID string
}

// Leave: issued on disconnect.
type Leave struct {
	ClientID string
}

// Command: one engine verb (protocol.VerbStart etc).
type Command struct {
	Verb string
}
