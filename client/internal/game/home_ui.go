package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"stormkeep/shared/protocol"
)

func (g *Game) updateHome() {
	g.requestTargetsOnce()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.lastTargetsReq = g.lastTargetsReq.AddDate(-1, 0, 0)
		g.requestTargetsOnce()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.send("Logout", protocol.Logout{})
		ClearToken()
		ClearUsername()
		SetSessionToken("")
		g.resetToLogin()
		return
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()

	for i, r := range g.targetRects {
		if r.hit(mx, my) {
			g.selectedTarget = i
			return
		}
	}

	if g.raidBtn.hit(mx, my) && g.selectedTarget >= 0 && g.selectedTarget < len(g.targets) {
		t := g.targets[g.selectedTarget]
		g.send("BeginRaid", protocol.BeginRaid{TargetID: t.ID})
		g.homeStatus = "Marching on " + t.Name + "..."
	}
}

func (g *Game) drawHome(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, 0, 0, float64(protocol.ScreenW), float64(protocol.ScreenH), color.NRGBA{24, 26, 34, 255})

	// top bar
	ebitenutil.DrawRect(screen, 0, 0, float64(protocol.ScreenW), topBarH, color.NRGBA{20, 20, 30, 255})
	text.Draw(screen, trim(g.name, 20), basicfont.Face7x13, pad, 26, color.White)
	tr := fmt.Sprintf("Trophies: %d", g.trophies)
	text.Draw(screen, tr, basicfont.Face7x13, protocol.ScreenW-pad-len(tr)*7, 26, color.NRGBA{240, 200, 60, 255})

	text.Draw(screen, "Raid targets (R: refresh, F12: log out):", basicfont.Face7x13, pad, topBarH+24, color.NRGBA{170, 170, 190, 255})

	// target list
	g.targetRects = g.targetRects[:0]
	y := topBarH + 36
	for i, t := range g.targets {
		r := rect{x: pad, y: y, w: protocol.ScreenW - 2*pad, h: rowH}
		g.targetRects = append(g.targetRects, r)

		bg := color.NRGBA{36, 40, 52, 255}
		if i == g.selectedTarget {
			bg = color.NRGBA{60, 80, 120, 255}
		}
		ebitenutil.DrawRect(screen, float64(r.x), float64(r.y), float64(r.w), float64(r.h)-2, bg)

		line := fmt.Sprintf("%s  (Lv %d)", trim(t.Name, 22), t.Level)
		text.Draw(screen, line, basicfont.Face7x13, r.x+6, r.y+18, color.White)
		if t.Difficulty != "" {
			text.Draw(screen, t.Difficulty, basicfont.Face7x13, r.x+r.w-160, r.y+18, difficultyColor(t.Difficulty))
		}
		if t.TravelSec > 0 {
			eta := fmt.Sprintf("%ds", t.TravelSec)
			text.Draw(screen, eta, basicfont.Face7x13, r.x+r.w-50, r.y+18, color.NRGBA{170, 170, 190, 255})
		}

		y += rowH
		if y > protocol.ScreenH-140 {
			break
		}
	}
	if len(g.targets) == 0 {
		text.Draw(screen, "No targets yet...", basicfont.Face7x13, pad, y+18, color.NRGBA{150, 150, 150, 255})
	}

	// raid button
	g.raidBtn = rect{x: (protocol.ScreenW - btnW) / 2, y: protocol.ScreenH - 90, w: btnW, h: btnH}
	bc := color.NRGBA{70, 110, 70, 255}
	if g.selectedTarget < 0 || g.selectedTarget >= len(g.targets) {
		bc = color.NRGBA{60, 60, 60, 255}
	}
	ebitenutil.DrawRect(screen, float64(g.raidBtn.x), float64(g.raidBtn.y), btnW, btnH, bc)
	text.Draw(screen, "Raid!", basicfont.Face7x13, g.raidBtn.x+44, g.raidBtn.y+20, color.White)

	if g.homeStatus != "" {
		text.Draw(screen, g.homeStatus, basicfont.Face7x13, pad, protocol.ScreenH-30, color.NRGBA{200, 200, 160, 255})
	}
}

func difficultyColor(d string) color.NRGBA {
	switch d {
	case "easy":
		return color.NRGBA{120, 200, 120, 255}
	case "hard":
		return color.NRGBA{220, 110, 90, 255}
	default:
		return color.NRGBA{230, 200, 110, 255}
	}
}
