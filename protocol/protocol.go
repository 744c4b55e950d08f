package protocol

import (
	"encoding/json"
)

const (
	MsgHello   = "hello"
	MsgCommand = "command"
	MsgWelcome = "welcome"
	MsgState   = "state"
)

// DefaultTickMillis is the simulation cadence unless configuration overrides
// it; the welcome message reports the effective value.
const DefaultTickMillis = 100

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
