package battle

import (
	"log"
	"time"

	"stormkeep/shared/protocol"
)

// destructionTierFor drives the fill-bar color ramp.
func destructionTierFor(pct float64) Tier {
	switch {
	case pct > 75:
		return TierCritical
	case pct > 50:
		return TierWarning
	default:
		return TierNormal
	}
}

// Apply reconciles a sparse simulator snapshot into the session. Fields the
// simulator did not resend stay untouched. Snapshots for a superseded
// session id are a legitimate race around session boundaries and are
// dropped without side effects.
func (s *Session) Apply(now time.Time, snap protocol.RaidSnapshot) {
	if snap.SessionID == 0 {
		log.Printf("BATTLE: snapshot rejected, missing session id")
		return
	}
	if s.phase == PhaseIdle || snap.SessionID != s.id {
		return
	}

	if snap.Phase != nil {
		p, ok := ParsePhase(*snap.Phase)
		switch {
		case !ok:
			log.Printf("BATTLE: snapshot with unknown phase %q", *snap.Phase)
		case p == PhaseActive && s.phase == PhaseScout:
			s.enterActive(now)
		case p == PhaseComplete && s.phase != PhaseComplete:
			// Completion carries rewards and is terminal; it only arrives
			// through RaidOver, never a plain snapshot.
			log.Printf("BATTLE: snapshot phase %q ignored, waiting for RaidOver", *snap.Phase)
		}
	}

	if snap.RemainingSeconds != nil {
		if s.clock.Set(*snap.RemainingSeconds) {
			s.listener.TimerChanged(s.clock.Seconds(), s.clock.Tier())
		}
	}

	if snap.DestructionPercent != nil {
		s.applyDestruction(*snap.DestructionPercent)
	}

	if snap.StarsEarned != nil {
		s.applyStars(*snap.StarsEarned)
	}

	if snap.RemainingDeployables != nil {
		s.applyDeployables(snap.RemainingDeployables)
	}
}

// Complete is the terminal event. Idempotent: a second RaidOver for the
// same session is dropped, so the results can never be revealed twice.
func (s *Session) Complete(now time.Time, msg protocol.RaidOver) {
	if msg.SessionID == 0 {
		log.Printf("BATTLE: completion rejected, missing session id")
		return
	}
	if s.phase == PhaseIdle || msg.SessionID != s.id {
		return
	}
	if s.phase == PhaseComplete {
		log.Printf("BATTLE: duplicate RaidOver for session %d ignored", s.id)
		return
	}
	// A surrender during scouting completes a session that never saw the
	// active phase; walk through it so the transition table stays closed.
	if s.phase == PhaseScout {
		s.enterActive(now)
	}

	s.applyDestruction(msg.DestructionPercent)
	s.applyStars(msg.StarsEarned)

	if s.promptVisible {
		s.promptVisible = false
		s.listener.PromptShown(false)
	}
	s.sel.Clear()
	s.listener.SelectionChanged("")

	s.phase = PhaseComplete
	s.listener.PhaseChanged(PhaseComplete)

	res := Result{
		Victory:            msg.Victory,
		Stars:              s.stars,
		DestructionPercent: s.destruction,
		RewardGold:         msg.Reward.Gold,
		RewardXP:           msg.Reward.XP,
	}
	id := s.id
	log.Printf("BATTLE: session %d complete (victory=%v stars=%d destruction=%.1f%%)",
		id, msg.Victory, s.stars, s.destruction)

	// Brief beat before the results screen; stranded by Close/new Start.
	s.delays.schedule(now.Add(resultsRevealDelay), s.gen, func(time.Time) {
		s.results.Present(id, res, s.listener)
	})
}

// applyDestruction clamps defensively and never regresses within a session.
func (s *Session) applyDestruction(pct float64) {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	if pct <= s.destruction {
		return
	}
	s.destruction = pct
	s.listener.DestructionChanged(pct, destructionTierFor(pct))
}

// applyStars compares against the previously rendered per-slot state, so a
// star celebrates exactly once no matter how many snapshots repeat it.
func (s *Session) applyStars(n int) {
	if n < 0 {
		n = 0
	} else if n > protocol.StarsMax {
		n = protocol.StarsMax
	}
	if n <= s.stars {
		return
	}
	s.stars = n
	for slot := 0; slot < n; slot++ {
		if !s.starShown[slot] {
			s.starShown[slot] = true
			s.listener.StarEarned(slot)
		}
	}
	s.listener.StarsChanged(n)
}

// applyDeployables swaps in the authoritative counts and rebuilds the
// selection list. If the armed type just ran out the selection clears as a
// side effect of this same apply.
func (s *Session) applyDeployables(counts map[string]int) {
	s.remaining = make(map[string]int, len(counts))
	for k, v := range counts {
		if v < 0 {
			v = 0
		}
		s.remaining[k] = v
	}
	if armed := s.sel.Armed(); armed != "" && s.remaining[armed] <= 0 {
		s.sel.Clear()
		s.listener.SelectionChanged("")
	}
	s.listener.DeployablesChanged(s.deployableList())
}
