package battle

import (
	"reflect"
	"testing"
	"time"

	"stormkeep/shared/protocol"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sp(s string) *string   { return &s }
func ip(n int) *int         { return &n }
func fp(f float64) *float64 { return &f }

// recListener records every notification in order so tests can assert on
// the exact view-facing event stream.
type recListener struct {
	phases     []Phase
	timers     []int
	tiers      []Tier
	destr      []float64
	destrTiers []Tier
	starSlots  []int
	stars      []int
	lists      [][]DeployableCount
	selections []string
	prompts    []bool
	results    []Result
	closed     []int64
}

func (r *recListener) PhaseChanged(p Phase) { r.phases = append(r.phases, p) }
func (r *recListener) TimerChanged(sec int, tier Tier) {
	r.timers = append(r.timers, sec)
	r.tiers = append(r.tiers, tier)
}
func (r *recListener) DestructionChanged(pct float64, tier Tier) {
	r.destr = append(r.destr, pct)
	r.destrTiers = append(r.destrTiers, tier)
}
func (r *recListener) StarEarned(slot int) { r.starSlots = append(r.starSlots, slot) }
func (r *recListener) StarsChanged(n int)  { r.stars = append(r.stars, n) }
func (r *recListener) DeployablesChanged(list []DeployableCount) {
	r.lists = append(r.lists, list)
}
func (r *recListener) SelectionChanged(name string) { r.selections = append(r.selections, name) }
func (r *recListener) PromptShown(v bool)           { r.prompts = append(r.prompts, v) }
func (r *recListener) ResultsReady(res Result)      { r.results = append(r.results, res) }
func (r *recListener) SessionClosed(id int64)       { r.closed = append(r.closed, id) }

type sentMsg struct {
	typ     string
	payload interface{}
}

type recSender struct {
	msgs []sentMsg
}

func (s *recSender) Send(msgType string, payload interface{}) error {
	s.msgs = append(s.msgs, sentMsg{typ: msgType, payload: payload})
	return nil
}

func startRaid(t *testing.T) (*Session, *recListener, *recSender) {
	t.Helper()
	l := &recListener{}
	snd := &recSender{}
	s := NewSession(l, snd)
	err := s.Start(t0, protocol.RaidStart{
		SessionID:     42,
		Opponent:      protocol.OpponentSummary{Name: "Gorefang", Level: 9},
		ScoutSeconds:  30,
		ActiveSeconds: 180,
		Loadout:       map[string]int{"Archer": 3, "Footman": 2, "Fireball": 1},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return s, l, snd
}

func goActive(t *testing.T, s *Session) {
	t.Helper()
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, Phase: sp("active")})
	if s.Phase() != PhaseActive {
		t.Fatalf("want active, got %s", s.Phase())
	}
}

func TestStartRejectsSecondSession(t *testing.T) {
	s, _, _ := startRaid(t)
	err := s.Start(t0, protocol.RaidStart{SessionID: 77})
	if err != ErrBusy {
		t.Fatalf("want ErrBusy, got %v", err)
	}
	if s.ID() != 42 {
		t.Fatalf("running session must be untouched, got %d", s.ID())
	}
}

func TestTimerTierScenario(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, RemainingSeconds: ip(25)})
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, RemainingSeconds: ip(8)})
	wantSec := []int{180, 25, 8}
	wantTier := []Tier{TierNormal, TierWarning, TierCritical}
	if !reflect.DeepEqual(l.timers, wantSec) || !reflect.DeepEqual(l.tiers, wantTier) {
		t.Fatalf("timers=%v tiers=%v", l.timers, l.tiers)
	}
}

func TestTimerRepeatIsNoop(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, RemainingSeconds: ip(25)})
	n := len(l.timers)
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, RemainingSeconds: ip(25)})
	if len(l.timers) != n {
		t.Fatalf("repeated seconds must not re-notify, got %v", l.timers)
	}
}

func TestStarCelebrationScenario(t *testing.T) {
	s, l, _ := startRaid(t)
	for _, n := range []int{0, 1, 1, 2} {
		s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, StarsEarned: ip(n)})
	}
	if want := []int{0, 1}; !reflect.DeepEqual(l.starSlots, want) {
		t.Fatalf("celebrated slots %v, want %v", l.starSlots, want)
	}
	if s.Stars() != 2 {
		t.Fatalf("stars=%d", s.Stars())
	}
}

func TestStarsNeverRegress(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, StarsEarned: ip(2)})
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, StarsEarned: ip(1)})
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, StarsEarned: ip(5)})
	if s.Stars() != protocol.StarsMax {
		t.Fatalf("stars=%d, want clamp at %d", s.Stars(), protocol.StarsMax)
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(l.starSlots, want) {
		t.Fatalf("celebrated slots %v, want %v", l.starSlots, want)
	}
}

func TestDestructionClampAndMonotone(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, DestructionPercent: fp(150)})
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, DestructionPercent: fp(40)})
	if s.Destruction() != 100 {
		t.Fatalf("destruction=%v, want clamp at 100", s.Destruction())
	}
	if want := []float64{0, 100}; !reflect.DeepEqual(l.destr, want) {
		t.Fatalf("destruction stream %v, want %v", l.destr, want)
	}
	if l.destrTiers[len(l.destrTiers)-1] != TierCritical {
		t.Fatalf("tiers=%v", l.destrTiers)
	}
}

func TestDestructionColorRamp(t *testing.T) {
	s, l, _ := startRaid(t)
	for _, pct := range []float64{30, 60, 80} {
		s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, DestructionPercent: fp(pct)})
	}
	want := []Tier{TierNormal, TierNormal, TierWarning, TierCritical}
	if !reflect.DeepEqual(l.destrTiers, want) {
		t.Fatalf("tiers=%v, want %v", l.destrTiers, want)
	}
}

func TestArmedDepletionClearsSelection(t *testing.T) {
	s, l, _ := startRaid(t)
	goActive(t, s)
	s.Arm("Archer")
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, RemainingDeployables: map[string]int{
		"Archer": 0, "Footman": 2, "Fireball": 1,
	}})
	if s.Armed() != "" {
		t.Fatalf("armed=%q, want auto-clear on depletion", s.Armed())
	}
	list := l.lists[len(l.lists)-1]
	for _, d := range list {
		if d.Name == "Archer" {
			t.Fatalf("depleted type still listed: %v", list)
		}
	}
	if l.selections[len(l.selections)-1] != "" {
		t.Fatalf("selections=%v", l.selections)
	}
}

func TestArmDepletedTypeIneffective(t *testing.T) {
	s, _, _ := startRaid(t)
	goActive(t, s)
	s.Arm("Archer")
	s.Arm("Ogre") // not in the loadout, so count is zero
	if s.Armed() != "Archer" {
		t.Fatalf("armed=%q, want previous selection kept", s.Armed())
	}
}

func TestStaleSnapshotLeavesStateUnchanged(t *testing.T) {
	s, l, _ := startRaid(t)
	nTimers, nDestr, nStars := len(l.timers), len(l.destr), len(l.stars)
	s.Apply(t0, protocol.RaidSnapshot{
		SessionID:          99,
		Phase:              sp("active"),
		RemainingSeconds:   ip(5),
		DestructionPercent: fp(90),
		StarsEarned:        ip(3),
	})
	if s.Phase() != PhaseScout || s.Stars() != 0 || s.Destruction() != 0 {
		t.Fatalf("stale snapshot mutated state: %s %d %v", s.Phase(), s.Stars(), s.Destruction())
	}
	if len(l.timers) != nTimers || len(l.destr) != nDestr || len(l.stars) != nStars {
		t.Fatalf("stale snapshot notified the listener")
	}
}

func TestMalformedSnapshotRejected(t *testing.T) {
	s, _, _ := startRaid(t)
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 0, StarsEarned: ip(3)})
	if s.Stars() != 0 {
		t.Fatalf("snapshot without session id must be dropped")
	}
}

func TestScoutBudgetExpiryEntersActive(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Tick(t0.Add(29 * time.Second))
	if s.Phase() != PhaseScout {
		t.Fatalf("entered active early")
	}
	s.Tick(t0.Add(30 * time.Second))
	if s.Phase() != PhaseActive {
		t.Fatalf("scout budget expiry must enter active, got %s", s.Phase())
	}
	if len(l.prompts) == 0 || !l.prompts[0] {
		t.Fatalf("deploy prompt must show on entering active, prompts=%v", l.prompts)
	}
}

func TestServerPhaseWinsOverLocalExpiry(t *testing.T) {
	s, l, _ := startRaid(t)
	goActive(t, s)
	s.Tick(t0.Add(31 * time.Second))
	n := 0
	for _, p := range l.phases {
		if p == PhaseActive {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("active entered %d times, want once (phases=%v)", n, l.phases)
	}
}

func TestPromptAutoHides(t *testing.T) {
	s, l, _ := startRaid(t)
	goActive(t, s)
	s.Tick(t0.Add(1900 * time.Millisecond))
	if want := []bool{true}; !reflect.DeepEqual(l.prompts, want) {
		t.Fatalf("prompt hidden early: %v", l.prompts)
	}
	s.Tick(t0.Add(2 * time.Second))
	if want := []bool{true, false}; !reflect.DeepEqual(l.prompts, want) {
		t.Fatalf("prompts=%v, want %v", l.prompts, want)
	}
}

func TestPromptCallbackStrandedByNewSession(t *testing.T) {
	s, l, _ := startRaid(t)
	goActive(t, s)
	s.Close() // hides the prompt and strands the pending auto-hide
	err := s.Start(t0, protocol.RaidStart{
		SessionID:    77,
		ScoutSeconds: 30,
		Loadout:      map[string]int{"Archer": 1},
	})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	s.Tick(t0.Add(10 * time.Second))
	if want := []bool{true, false}; !reflect.DeepEqual(l.prompts, want) {
		t.Fatalf("stranded callback fired: prompts=%v", l.prompts)
	}
}

func TestCompleteRevealsResultsOnce(t *testing.T) {
	s, l, _ := startRaid(t)
	goActive(t, s)
	over := protocol.RaidOver{
		SessionID:          42,
		Victory:            true,
		StarsEarned:        2,
		DestructionPercent: 68,
		Reward:             protocol.RewardSummary{Gold: 1200, XP: 90},
	}
	s.Complete(t0, over)
	s.Complete(t0, over) // duplicate terminal event
	s.Tick(t0.Add(time.Second))
	if len(l.results) != 1 {
		t.Fatalf("results revealed %d times, want once", len(l.results))
	}
	got := l.results[0]
	if !got.Victory || got.Stars != 2 || got.DestructionPercent != 68 || got.RewardGold != 1200 {
		t.Fatalf("result=%+v", got)
	}
}

func TestCompleteDuringScoutWalksThroughActive(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Complete(t0, protocol.RaidOver{SessionID: 42, Victory: false})
	want := []Phase{PhaseScout, PhaseActive, PhaseComplete}
	if !reflect.DeepEqual(l.phases, want) {
		t.Fatalf("phases=%v, want %v", l.phases, want)
	}
}

func TestCloseThenStaleTraffic(t *testing.T) {
	s, l, _ := startRaid(t)
	s.Close()
	if want := []int64{42}; !reflect.DeepEqual(l.closed, want) {
		t.Fatalf("closed=%v, want %v", l.closed, want)
	}
	s.Apply(t0, protocol.RaidSnapshot{SessionID: 42, StarsEarned: ip(3)})
	s.Complete(t0, protocol.RaidOver{SessionID: 42, Victory: true})
	s.Tick(t0.Add(time.Second))
	if s.Phase() != PhaseIdle || len(l.results) != 0 {
		t.Fatalf("stale traffic after close: phase=%s results=%d", s.Phase(), len(l.results))
	}
}

func TestCloseWhileIdleIsNoop(t *testing.T) {
	l := &recListener{}
	s := NewSession(l, &recSender{})
	s.Close()
	if len(l.closed) != 0 {
		t.Fatalf("close while idle must not notify, closed=%v", l.closed)
	}
}

func TestCloseNotifiesServer(t *testing.T) {
	s, _, snd := startRaid(t)
	s.Close()
	if len(snd.msgs) == 0 {
		t.Fatalf("no leave message sent")
	}
	last := snd.msgs[len(snd.msgs)-1]
	if last.typ != "LeaveRaid" {
		t.Fatalf("last message %q, want LeaveRaid", last.typ)
	}
	if p, ok := last.payload.(protocol.LeaveRaid); !ok || p.SessionID != 42 {
		t.Fatalf("payload=%+v", last.payload)
	}
}

func TestForcedReturn(t *testing.T) {
	s, l, snd := startRaid(t)
	s.ForceReturn(protocol.ForcedReturn{SessionID: 7})
	if s.Phase() != PhaseScout {
		t.Fatalf("stale forced return must be ignored")
	}
	s.ForceReturn(protocol.ForcedReturn{SessionID: 42})
	if s.Phase() != PhaseIdle || !reflect.DeepEqual(l.closed, []int64{42}) {
		t.Fatalf("phase=%s closed=%v", s.Phase(), l.closed)
	}
	for _, m := range snd.msgs {
		if m.typ == "LeaveRaid" {
			t.Fatalf("forced return must not echo a leave")
		}
	}
}

func TestDeploySendsGridCell(t *testing.T) {
	s, _, snd := startRaid(t)
	if _, ok := s.Deploy(t0, 10, 10); ok {
		t.Fatalf("deploy must be ineffective during scouting")
	}
	goActive(t, s)
	if _, ok := s.Deploy(t0, 10, 10); ok {
		t.Fatalf("deploy must be ineffective with nothing armed")
	}
	s.Arm("Archer")
	cell, ok := s.Deploy(t0, 65, -5)
	if !ok || cell.X != 2 || cell.Z != -1 {
		t.Fatalf("cell=(%d,%d) ok=%v", cell.X, cell.Z, ok)
	}
	last := snd.msgs[len(snd.msgs)-1]
	if last.typ != "DeployAt" {
		t.Fatalf("last message %q", last.typ)
	}
	p, ok := last.payload.(protocol.DeployAt)
	if !ok {
		t.Fatalf("payload=%T", last.payload)
	}
	want := protocol.DeployAt{SessionID: 42, Deployable: "Archer", CellX: 2, CellZ: -1, ClientTs: t0.UnixMilli()}
	if p != want {
		t.Fatalf("payload=%+v, want %+v", p, want)
	}
	if s.Armed() != "Archer" {
		t.Fatalf("deploy must not clear the selection, armed=%q", s.Armed())
	}
}

func TestDeployWithoutSender(t *testing.T) {
	l := &recListener{}
	s := NewSession(l, nil)
	if err := s.Start(t0, protocol.RaidStart{SessionID: 42, Loadout: map[string]int{"Archer": 3}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	goActive(t, s)
	s.Arm("Archer")
	if _, ok := s.Deploy(t0, 40, 40); ok {
		t.Fatalf("deploy without an outbound channel must degrade to a no-op")
	}
}

func TestSurrender(t *testing.T) {
	s, _, snd := startRaid(t)
	s.Surrender()
	last := snd.msgs[len(snd.msgs)-1]
	if last.typ != "Surrender" {
		t.Fatalf("last message %q", last.typ)
	}
	if p, ok := last.payload.(protocol.Surrender); !ok || p.SessionID != 42 {
		t.Fatalf("payload=%+v", last.payload)
	}
	s.Close()
	before := len(snd.msgs)
	s.Surrender()
	if len(snd.msgs) != before {
		t.Fatalf("surrender while idle must not send")
	}
}
