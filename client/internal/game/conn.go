package game

import (
	"errors"
	"log"
	"time"

	"stormkeep/client/internal/game/battle"
	"stormkeep/client/internal/netcfg"
	"stormkeep/shared/protocol"
)

func (g *Game) retryConnect() {
	if g.connectInFlight {
		return
	}
	g.connSt = stateConnecting
	g.connErrMsg = ""
	g.connectInFlight = true
	go g.connectAsync()
}

func (g *Game) connectAsync() {
	// Single in-flight dial guarded by connectInFlight
	n, err := NewNet(netcfg.ServerURL)
	// send result without blocking forever; drop oldest on overflow
	select {
	case g.connCh <- connResult{n: n, err: err}:
	default:
		select {
		case <-g.connCh:
		default:
		}
		g.connCh <- connResult{n: n, err: err}
	}
	g.connectInFlight = false
}

// ensureNet: make sure we have a live socket
func (g *Game) ensureNet() bool {
	if g.net != nil && !g.net.IsClosed() {
		return true
	}
	n, err := NewNet(netcfg.ServerURL)
	if err != nil {
		log.Printf("NET: dial failed: %v", err)
		return false
	}
	g.net = n
	log.Println("NET: connected")
	return true
}

// safe send wrapper for fire-and-forget UI requests
func (g *Game) send(typ string, payload interface{}) {
	if !g.ensureNet() {
		return
	}
	if err := g.net.Send(typ, payload); err != nil {
		log.Printf("NET: send(%s) failed: %v", typ, err)
	}
}

// Send is the battle session's outbound channel. Unlike send it reports
// failure so the session can degrade instead of assuming delivery.
func (g *Game) Send(typ string, payload interface{}) error {
	if g.net == nil || g.net.IsClosed() {
		return errors.New("net: not connected")
	}
	return g.net.Send(typ, payload)
}

// resetToLogin tears the socket down and returns to the auth form.
func (g *Game) resetToLogin() {
	if g.net != nil {
		_ = g.net.Close()
		g.net = nil
	}

	if g.session.Phase() != battle.PhaseIdle {
		g.session.Close()
	}

	g.scr = screenLogin
	g.userInput = ""
	g.passInput = ""
	g.focusPass = false
	g.loginErr = ""
	g.loginBusy = false
	g.name = ""
	g.playerID = 0
	g.trophies = 0

	g.targets = nil
	g.targetRects = nil
	g.selectedTarget = -1
	g.lastTargetsReq = time.Time{}
	g.homeStatus = ""

	g.connSt = stateIdle
	g.connErrMsg = ""
	g.connRetryAt = time.Time{}
	g.connectInFlight = false

	for {
		select {
		case <-g.connCh:
		default:
			return
		}
	}
}

// requestTargetsOnce refreshes the raid list, throttled so holding the
// screen open doesn't spam the simulator.
func (g *Game) requestTargetsOnce() {
	if g.net == nil || g.net.IsClosed() {
		return
	}
	if time.Since(g.lastTargetsReq) < 5*time.Second {
		return
	}
	g.send("ListTargets", protocol.ListTargets{})
	g.lastTargetsReq = time.Now()
}
