package game

import (
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"stormkeep/client/internal/game/battle"
	"stormkeep/shared/protocol"
)

// New builds the game. With a fresh saved token it auto-connects, otherwise
// it starts on the login form.
func New() *Game {
	g := &Game{
		scr:            screenLogin,
		connCh:         make(chan connResult, 4),
		connSt:         stateIdle,
		loginCh:        make(chan loginResult, 1),
		selectedTarget: -1,
	}
	g.session = battle.NewSession(g, g)

	if TokenFresh() {
		g.name = LoadUsername()
		g.userInput = g.name
		g.retryConnect()
	} else {
		ClearToken()
	}
	return g
}

func (g *Game) Update() error {
	// async login result
	select {
	case res := <-g.loginCh:
		g.loginBusy = false
		if res.err != nil {
			g.loginErr = res.err.Error()
			break
		}
		g.loginErr = ""
		g.name = res.username
		SetSessionToken(res.token)
		_ = SaveUsername(res.username)
		g.retryConnect()
	default:
	}

	if g.connSt == stateFailed && time.Now().After(g.connRetryAt) && !g.connectInFlight {
		g.connRetryAt = time.Now().Add(2 * time.Second)
		g.retryConnect()
	}

	// async dial result
	select {
	case res := <-g.connCh:
		if res.err != nil {
			g.connSt = stateFailed
			g.connErrMsg = res.err.Error()
			g.connRetryAt = time.Now().Add(2 * time.Second)
			break
		}
		g.net = res.n
		g.connSt = stateConnected
		g.session.SetSender(g)

		if strings.TrimSpace(g.name) == "" {
			g.name = "Player"
		}
		g.send("SetName", protocol.SetName{Name: g.name})
		g.send("GetProfile", protocol.GetProfile{})
		g.send("ListTargets", protocol.ListTargets{})
		g.lastTargetsReq = time.Now()
		if g.scr == screenLogin {
			g.scr = screenHome
		}
	default:
	}

	// inbound messages
	if g.net != nil && !g.net.IsClosed() {
	drain:
		for {
			select {
			case env, ok := <-g.net.inCh:
				if !ok {
					break drain
				}
				g.handle(env)
			default:
				break drain
			}
		}
	} else if g.net != nil && g.connSt == stateConnected {
		// socket died mid-session; fall back to the retry loop
		log.Println("NET: connection lost")
		g.connSt = stateFailed
		g.connErrMsg = "connection lost"
		g.connRetryAt = time.Now().Add(2 * time.Second)
		g.net = nil
	}

	g.session.Tick(time.Now())

	switch g.scr {
	case screenLogin:
		g.updateLogin()
	case screenHome:
		g.updateHome()
	case screenBattle:
		g.updateBattle()
	}
	return nil
}

// ---------- Login ----------

func (g *Game) updateLogin() {
	if g.loginBusy {
		return
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		switch k {
		case ebiten.KeyEnter:
			g.submitLogin()
		case ebiten.KeyTab:
			g.focusPass = !g.focusPass
		case ebiten.KeyF2:
			g.registerMode = !g.registerMode
			g.loginErr = ""
		case ebiten.KeyBackspace:
			if g.focusPass {
				if len(g.passInput) > 0 {
					g.passInput = g.passInput[:len(g.passInput)-1]
				}
			} else if len(g.userInput) > 0 {
				g.userInput = g.userInput[:len(g.userInput)-1]
			}
		default:
			s := k.String()
			if len(s) == 1 {
				if g.focusPass {
					g.passInput += s
				} else {
					g.userInput += s
				}
			}
		}
	}
}

func (g *Game) submitLogin() {
	user := strings.TrimSpace(g.userInput)
	pass := g.passInput
	if user == "" || pass == "" {
		g.loginErr = "username and password required"
		return
	}
	g.loginBusy = true
	g.loginErr = ""
	register := g.registerMode
	go func() {
		if register {
			if err := Register(user, pass); err != nil {
				g.loginCh <- loginResult{err: err}
				return
			}
		}
		tok, err := Login(user, pass)
		g.loginCh <- loginResult{token: tok, username: user, err: err}
	}()
}

func (g *Game) drawLogin(screen *ebiten.Image) {
	title := "Stormkeep — log in"
	if g.registerMode {
		title = "Stormkeep — create account"
	}
	text.Draw(screen, title, basicfont.Face7x13, pad, 48, color.White)

	text.Draw(screen, "Username:", basicfont.Face7x13, pad, 90, color.White)
	ebitenutil.DrawRect(screen, float64(pad), 98, 260, 18, color.NRGBA{40, 40, 40, 255})
	text.Draw(screen, g.userInput, basicfont.Face7x13, pad+4, 112, color.White)

	text.Draw(screen, "Password:", basicfont.Face7x13, pad, 140, color.White)
	ebitenutil.DrawRect(screen, float64(pad), 148, 260, 18, color.NRGBA{40, 40, 40, 255})
	text.Draw(screen, strings.Repeat("*", len(g.passInput)), basicfont.Face7x13, pad+4, 162, color.White)

	focusY := 98.0
	if g.focusPass {
		focusY = 148.0
	}
	ebitenutil.DrawRect(screen, float64(pad), focusY+17, 260, 1, color.NRGBA{120, 170, 255, 255})

	hint := "Enter: log in   Tab: switch field   F2: register"
	if g.registerMode {
		hint = "Enter: register + log in   Tab: switch field   F2: back to login"
	}
	text.Draw(screen, hint, basicfont.Face7x13, pad, 200, color.NRGBA{170, 170, 170, 255})

	if g.loginBusy {
		text.Draw(screen, "Signing in...", basicfont.Face7x13, pad, 230, color.NRGBA{220, 220, 120, 255})
	} else if g.loginErr != "" {
		text.Draw(screen, g.loginErr, basicfont.Face7x13, pad, 230, color.NRGBA{255, 120, 120, 255})
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.scr == screenLogin {
		g.drawLogin(screen)
		return
	}

	if g.connSt != stateConnected {
		ebitenutil.DrawRect(
			screen,
			0, 0,
			float64(protocol.ScreenW), float64(protocol.ScreenH),
			color.NRGBA{0, 0, 0, 140},
		)

		w, h := 420, 140
		x := (protocol.ScreenW - w) / 2
		y := (protocol.ScreenH - h) / 2
		ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), color.NRGBA{32, 32, 44, 255})

		if g.connSt == stateConnecting {
			text.Draw(screen, "Connecting to server...", basicfont.Face7x13, x+20, y+46, color.White)
		} else {
			text.Draw(screen, "Unable to connect to server", basicfont.Face7x13, x+20, y+46, color.NRGBA{255, 120, 120, 255})
			if g.connErrMsg != "" {
				text.Draw(screen, g.connErrMsg, basicfont.Face7x13, x+20, y+66, color.NRGBA{220, 200, 200, 255})
			}
			text.Draw(screen, "Retrying automatically...", basicfont.Face7x13, x+20, y+96, color.NRGBA{220, 220, 220, 255})
		}
		return
	}

	switch g.scr {
	case screenHome:
		g.drawHome(screen)
	case screenBattle:
		g.drawBattle(screen)
		if g.endActive {
			g.drawResultsOverlay(screen)
		}
	}
}

func (g *Game) Layout(w, h int) (int, int) { return protocol.ScreenW, protocol.ScreenH }

func fitToScreen() {
	mw, mh := ebiten.ScreenSizeInFullscreen()
	w, h := protocol.ScreenW, protocol.ScreenH

	margin := 48
	maxW, maxH := mw-margin, mh-margin

	scale := 1.0
	if w > maxW || h > maxH {
		sx := float64(maxW) / float64(w)
		sy := float64(maxH) / float64(h)
		if sx < sy {
			scale = sx
		} else {
			scale = sy
		}
	}

	ww := int(float64(w) * scale)
	wh := int(float64(h) * scale)

	if ww < 480 {
		ww = 480
	}
	if wh < 600 {
		wh = 600
	}

	ebiten.SetWindowSize(ww, wh)
}

// DesktopMain configures the window and runs the game loop.
func DesktopMain() {
	fitToScreen()
	ebiten.SetWindowResizable(true)
	ebiten.SetWindowTitle("Stormkeep")
	if err := ebiten.RunGame(New()); err != nil {
		log.Fatal(err)
	}
}

func trim(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
