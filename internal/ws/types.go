package ws

// Message is the envelope for every frame on the event stream.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	// server - client
	MsgJoined        = "joined"
	MsgRoundResolved = "round_resolved"
	MsgError         = "error"
)
