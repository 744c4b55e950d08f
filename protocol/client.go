package protocol

// Input structs coming in from the client.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
}

// Command verbs accepted by the engine.
const (
	VerbStart  = "start"
	VerbPause  = "pause"
	VerbResume = "resume"
	VerbReset  = "reset"
)

type Command struct {
	Verb string `json:"verb"`
}
