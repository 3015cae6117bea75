package game

import (
	"time"

	"stormkeep/client/internal/game/battle"
	"stormkeep/shared/protocol"
)

// Game is the client root: connection state, the current screen, and the
// battle session plus the render mirror it feeds through the listener
// callbacks. Everything here is touched only from the game loop.
type Game struct {
	// connection
	net             *Net
	connCh          chan connResult
	connSt          connState
	connErrMsg      string
	connRetryAt     time.Time
	connectInFlight bool

	scr screen

	// login form
	userInput    string
	passInput    string
	focusPass    bool
	registerMode bool
	loginBusy    bool
	loginErr     string
	loginCh      chan loginResult

	// profile
	playerID int64
	name     string
	trophies int

	// home screen
	targets        []protocol.TargetInfo
	targetRects    []rect
	raidBtn        rect
	selectedTarget int
	lastTargetsReq time.Time
	homeStatus     string

	// battle session + render mirror (written by the Listener callbacks)
	session        *battle.Session
	battlePhase    battle.Phase
	timerSeconds   int
	timerTier      battle.Tier
	destructionPct float64
	destrTier      battle.Tier
	stars          int
	starFlashUntil [protocol.StarsMax]time.Time
	deployables    []battle.DeployableCount
	deployRects    []rect
	armedName      string
	promptVisible  bool
	surrenderBtn   rect

	// results overlay
	endResult    *battle.Result
	endActive    bool
	continueBtn  rect
	copyBtn      rect
	reportCopied bool
}
