package game

// ---- Core enums / layout constants ----

type connState int

const (
	stateIdle connState = iota
	stateConnecting
	stateConnected
	stateFailed

	// UI layout
	topBarH    = 44
	battleHUDH = 160

	pad  = 8
	btnW = 120
	btnH = 32
	rowH = 28
)

type screen int

const (
	screenLogin screen = iota
	screenHome
	screenBattle
)

// ---- Small utility types ----

type rect struct{ x, y, w, h int }

func (r rect) hit(mx, my int) bool {
	return mx >= r.x && mx <= r.x+r.w && my >= r.y && my <= r.y+r.h
}

// Used by async connection
type connResult struct {
	n   *Net
	err error
}

// Used by async HTTP login/register
type loginResult struct {
	token    string
	username string
	err      error
}
