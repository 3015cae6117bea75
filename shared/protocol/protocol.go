package protocol

import "encoding/json"

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Profile struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Trophies int    `json:"trophies"`
}

type GetProfile struct{}

type Logout struct{}
