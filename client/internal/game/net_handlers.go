package game

import (
	"encoding/json"
	"log"
	"time"

	"stormkeep/shared/protocol"
)

// handle dispatches one inbound envelope. Payloads that fail to decode are
// logged and dropped; a malformed frame never tears the session down.
func (g *Game) handle(env protocol.MsgEnvelope) {
	switch env.Type {
	case "Profile":
		var m protocol.Profile
		if !decode(env, &m) {
			return
		}
		g.playerID = m.PlayerID
		if m.Name != "" {
			g.name = m.Name
		}
		g.trophies = m.Trophies

	case "Targets":
		var m protocol.Targets
		if !decode(env, &m) {
			return
		}
		g.targets = m.Items
		g.targetRects = nil
		if g.selectedTarget >= len(g.targets) {
			g.selectedTarget = -1
		}

	case "RaidStart":
		var m protocol.RaidStart
		if !decode(env, &m) {
			return
		}
		if err := g.session.Start(time.Now(), m); err != nil {
			log.Printf("NET: raid start dropped: %v", err)
			return
		}
		g.endActive = false
		g.endResult = nil
		g.scr = screenBattle

	case "RaidSnapshot":
		var m protocol.RaidSnapshot
		if !decode(env, &m) {
			return
		}
		g.session.Apply(time.Now(), m)

	case "RaidOver":
		var m protocol.RaidOver
		if !decode(env, &m) {
			return
		}
		g.session.Complete(time.Now(), m)

	case "ForcedReturn":
		var m protocol.ForcedReturn
		if !decode(env, &m) {
			return
		}
		g.session.ForceReturn(m)

	case "ErrorMsg":
		var m protocol.ErrorMsg
		if !decode(env, &m) {
			return
		}
		log.Printf("NET: server error: %s", m.Message)
		g.homeStatus = m.Message

	default:
		log.Printf("NET: unhandled message type %q", env.Type)
	}
}

func decode(env protocol.MsgEnvelope, v interface{}) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Printf("NET: bad %s payload: %v", env.Type, err)
		return false
	}
	return true
}
