package battle

import (
	"errors"
	"log"
	"sort"
	"time"

	"stormkeep/shared/game/types"
	"stormkeep/shared/protocol"
)

var ErrBusy = errors.New("battle: session already running")

const (
	promptLifetime     = protocol.DeployPromptMs * time.Millisecond
	resultsRevealDelay = 600 * time.Millisecond
)

// Session owns one engagement from raid start to return-to-overworld. All
// methods run on the game loop; the only "async" work is the one-shot delay
// queue, which Tick drives and the generation counter keeps honest.
type Session struct {
	id  int64
	gen uint64

	phase    Phase
	clock    SessionClock
	opponent protocol.OpponentSummary

	destruction float64
	stars       int
	starShown   [protocol.StarsMax]bool

	remaining map[string]int

	scoutBudget  int
	activeBudget int

	promptVisible bool

	sel     SelectionController
	results ResultsPresenter
	delays  delayQueue

	listener Listener
	sender   Sender
}

// NewSession wires the orchestrator to its view sink and outbound channel.
// sender may be nil (e.g. before the socket is up); outbound features then
// degrade to logged no-ops instead of crashing the session.
func NewSession(l Listener, s Sender) *Session {
	if l == nil {
		l = NopListener{}
	}
	return &Session{listener: l, sender: s}
}

// SetSender swaps the outbound channel, e.g. after a reconnect.
func (s *Session) SetSender(snd Sender) { s.sender = snd }

func (s *Session) ID() int64                          { return s.id }
func (s *Session) Phase() Phase                       { return s.phase }
func (s *Session) Armed() string                      { return s.sel.Armed() }
func (s *Session) Stars() int                         { return s.stars }
func (s *Session) Destruction() float64               { return s.destruction }
func (s *Session) Opponent() protocol.OpponentSummary { return s.opponent }
func (s *Session) Remaining(name string) int          { return s.remaining[name] }
func (s *Session) Deployables() []DeployableCount     { return s.deployableList() }

// Start opens a session from the raid start payload. Rejected while a
// session is already running; the old one must close first.
func (s *Session) Start(now time.Time, msg protocol.RaidStart) error {
	if s.phase != PhaseIdle {
		log.Printf("BATTLE: start rejected, session %d still %s", s.id, s.phase)
		return ErrBusy
	}
	if msg.SessionID == 0 {
		log.Printf("BATTLE: start rejected, missing session id")
		return errors.New("battle: start without session id")
	}

	s.gen++
	s.id = msg.SessionID
	s.opponent = msg.Opponent
	s.scoutBudget = msg.ScoutSeconds
	if s.scoutBudget <= 0 {
		s.scoutBudget = protocol.ScoutSeconds
	}
	s.activeBudget = msg.ActiveSeconds
	if s.activeBudget <= 0 {
		s.activeBudget = protocol.ActiveSeconds
	}

	s.destruction = 0
	s.stars = 0
	s.starShown = [protocol.StarsMax]bool{}
	s.remaining = make(map[string]int, len(msg.Loadout))
	for k, v := range msg.Loadout {
		s.remaining[k] = v
	}
	s.sel.Clear()
	s.promptVisible = false

	s.phase = PhaseScout
	s.clock.reset()
	s.clock.Set(s.activeBudget)

	s.listener.PhaseChanged(PhaseScout)
	s.listener.TimerChanged(s.clock.Seconds(), s.clock.Tier())
	s.listener.DestructionChanged(0, TierNormal)
	s.listener.StarsChanged(0)
	s.listener.DeployablesChanged(s.deployableList())
	s.listener.SelectionChanged("")

	// Local scout budget: if the simulator never pushes the phase flip we
	// enter the active phase ourselves, whichever is observed first.
	s.delays.schedule(now.Add(time.Duration(s.scoutBudget)*time.Second), s.gen, func(fire time.Time) {
		if s.phase == PhaseScout {
			s.enterActive(fire)
		}
	})

	log.Printf("BATTLE: session %d vs %q started (scout %ds, active %ds)",
		s.id, msg.Opponent.Name, s.scoutBudget, s.activeBudget)
	return nil
}

// Tick fires due one-shot callbacks. Call it once per frame.
func (s *Session) Tick(now time.Time) { s.delays.tick(now, s.gen) }

// Arm selects the deployable the next placement will use, replacing any
// previous selection. Arming a depleted type is ineffective.
func (s *Session) Arm(name string) {
	if s.phase != PhaseScout && s.phase != PhaseActive {
		log.Printf("BATTLE: arm %q ignored in %s", name, s.phase)
		return
	}
	changed, err := s.sel.Arm(name, s.remaining[name])
	if err != nil {
		log.Printf("BATTLE: arm %q ineffective: %v", name, err)
		return
	}
	if changed {
		s.listener.SelectionChanged(name)
	}
}

// ClearSelection returns to no armed deployable.
func (s *Session) ClearSelection() {
	if s.sel.Clear() {
		s.listener.SelectionChanged("")
	}
}

// Deploy maps a continuous battlefield position to its grid cell and sends
// the placement request for the armed deployable. Optimistic: counts only
// move when a snapshot says so.
func (s *Session) Deploy(now time.Time, x, z float64) (GridCoordinate, bool) {
	if s.phase != PhaseActive {
		log.Printf("BATTLE: deploy ignored in %s", s.phase)
		return GridCoordinate{}, false
	}
	armed := s.sel.Armed()
	if armed == "" {
		return GridCoordinate{}, false
	}
	if s.sender == nil {
		log.Printf("BATTLE: deploy disabled, no outbound channel")
		return GridCoordinate{}, false
	}
	cell := ToGrid(x, z, protocol.CellSize)
	err := s.sender.Send("DeployAt", protocol.DeployAt{
		SessionID:  s.id,
		Deployable: armed,
		CellX:      cell.X,
		CellZ:      cell.Z,
		ClientTs:   now.UnixMilli(),
	})
	if err != nil {
		log.Printf("BATTLE: deploy send failed: %v", err)
		return cell, false
	}
	return cell, true
}

// Surrender asks the simulator to end the raid; the terminal RaidOver still
// arrives through the normal path.
func (s *Session) Surrender() {
	if s.phase != PhaseScout && s.phase != PhaseActive {
		log.Printf("BATTLE: surrender ignored in %s", s.phase)
		return
	}
	if s.sender == nil {
		log.Printf("BATTLE: surrender disabled, no outbound channel")
		return
	}
	if err := s.sender.Send("Surrender", protocol.Surrender{SessionID: s.id}); err != nil {
		log.Printf("BATTLE: surrender send failed: %v", err)
	}
}

// ForceReturn is the simulator kicking us back to the overworld without a
// completion. Stale ids are dropped like any other message.
func (s *Session) ForceReturn(msg protocol.ForcedReturn) {
	if s.phase == PhaseIdle || msg.SessionID != s.id {
		return
	}
	log.Printf("BATTLE: session %d forced return", s.id)
	s.close(false)
}

// Close tears the session down after the player dismisses the results (or
// abandons the raid). No-op while idle.
func (s *Session) Close() {
	if s.phase == PhaseIdle {
		log.Printf("BATTLE: close ignored, no session")
		return
	}
	s.close(true)
}

func (s *Session) close(notifyServer bool) {
	id := s.id

	// Bumping the generation strands every scheduled one-shot; snapshots
	// for this id are stale from here on.
	s.gen++
	s.delays.reset()

	if notifyServer && s.sender != nil {
		if err := s.sender.Send("LeaveRaid", protocol.LeaveRaid{SessionID: id}); err != nil {
			log.Printf("BATTLE: leave send failed: %v", err)
		}
	}

	if s.promptVisible {
		s.promptVisible = false
		s.listener.PromptShown(false)
	}
	s.sel.Clear()
	s.phase = PhaseIdle
	s.id = 0
	s.remaining = nil
	s.clock.reset()

	s.listener.SelectionChanged("")
	s.listener.SessionClosed(id)
}

func (s *Session) enterActive(now time.Time) {
	s.phase = PhaseActive
	s.listener.PhaseChanged(PhaseActive)

	s.promptVisible = true
	s.listener.PromptShown(true)
	s.delays.schedule(now.Add(promptLifetime), s.gen, func(time.Time) {
		if s.promptVisible {
			s.promptVisible = false
			s.listener.PromptShown(false)
		}
	})
}

func (s *Session) deployableList() []DeployableCount {
	out := make([]DeployableCount, 0, len(s.remaining))
	for name, n := range s.remaining {
		if n <= 0 {
			continue
		}
		out = append(out, DeployableCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := types.OrderIndex(out[i].Name), types.OrderIndex(out[j].Name)
		if oi != oj {
			return oi < oj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
