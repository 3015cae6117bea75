package battle

// Phase is the session state machine position. Transitions only ever walk
// Idle -> Scout -> Active -> Complete -> Idle; a fresh session is the only
// way back to Scout.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScout
	PhaseActive
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseScout:
		return "scout"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// ParsePhase maps the wire value onto the enum. The simulator never sends
// "idle"; unknown strings are rejected so a typo can't move the machine.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "scout":
		return PhaseScout, true
	case "active":
		return PhaseActive, true
	case "complete":
		return PhaseComplete, true
	default:
		return PhaseIdle, false
	}
}

// Tier buckets a continuous value into a severity for presentation only.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierCritical
)

// DeployableCount is one entry of the presented selection list. Depleted
// types are dropped from the list, not shown at zero.
type DeployableCount struct {
	Name  string
	Count int
}

// Result is the terminal state handed to the results view.
type Result struct {
	Victory            bool
	Stars              int
	DestructionPercent float64
	RewardGold         int
	RewardXP           int
}

// Listener is the closed set of view-facing notifications. The session
// calls it synchronously from Apply/Tick; implementations just stash
// render state and must not call back into the session.
type Listener interface {
	PhaseChanged(p Phase)
	TimerChanged(seconds int, tier Tier)
	DestructionChanged(pct float64, tier Tier)
	StarEarned(slot int) // one-shot celebration, fired once per slot
	StarsChanged(n int)
	DeployablesChanged(list []DeployableCount)
	SelectionChanged(name string) // "" when nothing is armed
	PromptShown(visible bool)
	ResultsReady(r Result)
	SessionClosed(sessionID int64)
}

// Sender carries outbound requests to the simulator. Wire format matches
// the client websocket envelope: a type tag plus a JSON payload.
type Sender interface {
	Send(msgType string, payload interface{}) error
}

// NopListener discards every notification. Embed it when only a few
// callbacks matter.
type NopListener struct{}

func (NopListener) PhaseChanged(Phase)                   {}
func (NopListener) TimerChanged(int, Tier)               {}
func (NopListener) DestructionChanged(float64, Tier)     {}
func (NopListener) StarEarned(int)                       {}
func (NopListener) StarsChanged(int)                     {}
func (NopListener) DeployablesChanged([]DeployableCount) {}
func (NopListener) SelectionChanged(string)              {}
func (NopListener) PromptShown(bool)                     {}
func (NopListener) ResultsReady(Result)                  {}
func (NopListener) SessionClosed(int64)                  {}
