package protocol

// ================= C -> S =================

type SetName struct {
	Name string `json:"name"`
}

// Raid targets shown on the home screen. Distance/difficulty are computed
// server-side; the client only displays them.
type ListTargets struct{}

type TargetInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Difficulty string `json:"difficulty,omitempty"` // "easy" | "fair" | "hard"
	TravelSec  int    `json:"travelSec,omitempty"`
}

type Targets struct {
	Items []TargetInfo `json:"items"`
}

type BeginRaid struct {
	TargetID string `json:"targetId"`
}

// DeployAt places the armed deployable on a battlefield cell. Optimistic:
// the client keeps placing without waiting for an ack; the simulator
// validates and may reject silently.
type DeployAt struct {
	SessionID  int64  `json:"sessionId"`
	Deployable string `json:"deployable"`
	CellX      int    `json:"cellX"`
	CellZ      int    `json:"cellZ"`
	ClientTs   int64  `json:"clientTs"`
}

type Surrender struct {
	SessionID int64 `json:"sessionId"`
}

// LeaveRaid tells the simulator the player has left the engagement, either
// from the results screen or by abandoning it.
type LeaveRaid struct {
	SessionID int64 `json:"sessionId"`
}

// ================= S -> C =================

type OpponentSummary struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Avatar string `json:"avatar,omitempty"`
}

// RaidStart opens a battle session. Loadout is the initial per-deployable
// count; timing fields override the defaults in constants.go when non-zero.
type RaidStart struct {
	SessionID     int64           `json:"sessionId"`
	Opponent      OpponentSummary `json:"opponent"`
	ScoutSeconds  int             `json:"scoutSeconds,omitempty"`
	ActiveSeconds int             `json:"activeSeconds,omitempty"`
	Loadout       map[string]int  `json:"loadout"`
}

// RaidSnapshot is a sparse state update: nil fields were not resent by the
// simulator this tick and must leave client state untouched.
type RaidSnapshot struct {
	SessionID            int64          `json:"sessionId"`
	Phase                *string        `json:"phase,omitempty"` // "scout" | "active" | "complete"
	RemainingSeconds     *int           `json:"remainingSeconds,omitempty"`
	DestructionPercent   *float64       `json:"destructionPercent,omitempty"`
	StarsEarned          *int           `json:"starsEarned,omitempty"`
	RemainingDeployables map[string]int `json:"remainingDeployables,omitempty"`
}

type RewardSummary struct {
	Gold int `json:"gold"`
	XP   int `json:"xp"`
}

// RaidOver is the terminal message for a session; sent once.
type RaidOver struct {
	SessionID          int64         `json:"sessionId"`
	Victory            bool          `json:"victory"`
	StarsEarned        int           `json:"starsEarned"`
	DestructionPercent float64       `json:"destructionPercent"`
	Reward             RewardSummary `json:"reward"`
}

// ForcedReturn ends a session without a normal completion (simulator-side
// timeout or cleanup).
type ForcedReturn struct {
	SessionID int64 `json:"sessionId"`
}

type ErrorMsg struct {
	Message string `json:"message"`
}
