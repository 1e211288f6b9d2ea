package types

import "github.com/mvillareal/gamenight/internal/tracker"

type ClientMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
}

type ServerMessage struct {
	Type     string            `json:"type"` // "StateSnapshot" | "Error"
	Version  int               `json:"version,omitempty"`
	Snapshot *tracker.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}
