package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"stormkeep/client/internal/game/battle"
	"stormkeep/shared/game/types"
	"stormkeep/shared/protocol"
)

const starFlash = 1200 * time.Millisecond

// ---- battle.Listener ----
//
// The session calls these synchronously from the game loop; they only stash
// render state, drawing reads it back the same frame.

func (g *Game) PhaseChanged(p battle.Phase) { g.battlePhase = p }

func (g *Game) TimerChanged(seconds int, tier battle.Tier) {
	g.timerSeconds = seconds
	g.timerTier = tier
}

func (g *Game) DestructionChanged(pct float64, tier battle.Tier) {
	g.destructionPct = pct
	g.destrTier = tier
}

func (g *Game) StarEarned(slot int) {
	if slot >= 0 && slot < len(g.starFlashUntil) {
		g.starFlashUntil[slot] = time.Now().Add(starFlash)
	}
}

func (g *Game) StarsChanged(n int) { g.stars = n }

func (g *Game) DeployablesChanged(list []battle.DeployableCount) {
	g.deployables = list
	g.deployRects = nil
}

func (g *Game) SelectionChanged(name string) { g.armedName = name }

func (g *Game) PromptShown(visible bool) { g.promptVisible = visible }

func (g *Game) ResultsReady(r battle.Result) {
	res := r
	g.endResult = &res
	g.endActive = true
	g.reportCopied = false
}

func (g *Game) SessionClosed(sessionID int64) {
	g.battlePhase = battle.PhaseIdle
	g.timerSeconds = 0
	g.timerTier = battle.TierNormal
	g.destructionPct = 0
	g.destrTier = battle.TierNormal
	g.stars = 0
	g.starFlashUntil = [protocol.StarsMax]time.Time{}
	g.deployables = nil
	g.deployRects = nil
	g.armedName = ""
	g.promptVisible = false
	g.endActive = false
	g.endResult = nil

	if g.scr == screenBattle {
		g.scr = screenHome
	}
}

// ---- input ----

func (g *Game) updateBattle() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.session.ClearSelection()
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()

	if g.endActive {
		g.handleResultsClick(mx, my)
		return
	}

	if g.surrenderBtn.hit(mx, my) {
		g.session.Surrender()
		return
	}

	for i, r := range g.deployRects {
		if !r.hit(mx, my) || i >= len(g.deployables) {
			continue
		}
		name := g.deployables[i].Name
		if g.armedName == name {
			g.session.ClearSelection()
		} else {
			g.session.Arm(name)
		}
		return
	}

	// Battlefield click: everything between the top bar and the HUD.
	if my > topBarH+28 && my < protocol.ScreenH-battleHUDH {
		g.session.Deploy(time.Now(), float64(mx), float64(my))
	}
}

// ---- drawing ----

func tierColor(t battle.Tier) color.NRGBA {
	switch t {
	case battle.TierCritical:
		return color.NRGBA{255, 110, 110, 255}
	case battle.TierWarning:
		return color.NRGBA{255, 210, 90, 255}
	default:
		return color.NRGBA{230, 230, 230, 255}
	}
}

func destrColor(t battle.Tier) color.NRGBA {
	switch t {
	case battle.TierCritical:
		return color.NRGBA{220, 90, 70, 255}
	case battle.TierWarning:
		return color.NRGBA{230, 180, 70, 255}
	default:
		return color.NRGBA{90, 170, 90, 255}
	}
}

func fmtClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

func (g *Game) drawBattle(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, 0, 0, float64(protocol.ScreenW), float64(protocol.ScreenH), color.NRGBA{26, 30, 26, 255})

	// faint battlefield grid
	fieldTop := float64(topBarH + 28)
	fieldBot := float64(protocol.ScreenH - battleHUDH)
	for x := 0.0; x < protocol.ScreenW; x += protocol.CellSize {
		ebitenutil.DrawRect(screen, x, fieldTop, 1, fieldBot-fieldTop, color.NRGBA{255, 255, 255, 12})
	}
	for y := fieldTop; y < fieldBot; y += protocol.CellSize {
		ebitenutil.DrawRect(screen, 0, y, float64(protocol.ScreenW), 1, color.NRGBA{255, 255, 255, 12})
	}

	// top bar: opponent, phase, timer, surrender
	ebitenutil.DrawRect(screen, 0, 0, float64(protocol.ScreenW), topBarH, color.NRGBA{20, 20, 30, 255})
	opp := g.session.Opponent()
	title := fmt.Sprintf("Raiding %s (Lv %d)", trim(opp.Name, 18), opp.Level)
	text.Draw(screen, title, basicfont.Face7x13, pad, 18, color.White)
	text.Draw(screen, g.battlePhase.String(), basicfont.Face7x13, pad, 36, color.NRGBA{170, 170, 190, 255})

	clock := fmtClock(g.timerSeconds)
	text.Draw(screen, clock, basicfont.Face7x13, protocol.ScreenW/2-len(clock)*7/2, 26, tierColor(g.timerTier))

	g.surrenderBtn = rect{x: protocol.ScreenW - btnW - pad, y: (topBarH - btnH) / 2, w: btnW, h: btnH}
	ebitenutil.DrawRect(screen, float64(g.surrenderBtn.x), float64(g.surrenderBtn.y), btnW, btnH, color.NRGBA{120, 60, 60, 255})
	text.Draw(screen, "Surrender", basicfont.Face7x13, g.surrenderBtn.x+26, g.surrenderBtn.y+20, color.White)

	// destruction bar + star slots
	barY := float64(topBarH + 6)
	barW := float64(protocol.ScreenW - 2*pad - 110)
	ebitenutil.DrawRect(screen, pad, barY, barW, 14, color.NRGBA{18, 18, 22, 255})
	fill := barW * g.destructionPct / 100
	if fill > 0 {
		ebitenutil.DrawRect(screen, pad, barY, fill, 14, destrColor(g.destrTier))
	}
	text.Draw(screen, fmt.Sprintf("%.0f%%", g.destructionPct), basicfont.Face7x13, pad+int(barW)+6, int(barY)+12, color.White)

	now := time.Now()
	for i := 0; i < protocol.StarsMax; i++ {
		x := protocol.ScreenW - pad - (protocol.StarsMax-i)*22
		c := color.NRGBA{70, 70, 80, 255}
		if i < g.stars {
			c = color.NRGBA{240, 200, 60, 255}
			if now.Before(g.starFlashUntil[i]) {
				c = color.NRGBA{255, 250, 180, 255}
			}
		}
		ebitenutil.DrawRect(screen, float64(x), barY-2, 18, 18, c)
	}

	// deploy prompt banner
	if g.promptVisible {
		w, h := 260, 40
		x := (protocol.ScreenW - w) / 2
		y := int(fieldTop) + 30
		ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), color.NRGBA{30, 30, 45, 230})
		text.Draw(screen, "Deploy your forces!", basicfont.Face7x13, x+62, y+24, color.NRGBA{255, 230, 150, 255})
	}

	g.drawDeployBar(screen)
}

func (g *Game) drawDeployBar(screen *ebiten.Image) {
	hudY := protocol.ScreenH - battleHUDH
	ebitenutil.DrawRect(screen, 0, float64(hudY), float64(protocol.ScreenW), battleHUDH, color.NRGBA{20, 20, 30, 255})

	if g.battlePhase == battle.PhaseScout {
		text.Draw(screen, "Scouting... deployment unlocks when the raid begins", basicfont.Face7x13, pad, hudY+24, color.NRGBA{170, 170, 190, 255})
	}

	const cardW, cardH = 92, 110
	g.deployRects = g.deployRects[:0]
	x := pad
	y := hudY + 36
	for _, d := range g.deployables {
		r := rect{x: x, y: y, w: cardW, h: cardH}
		g.deployRects = append(g.deployRects, r)

		bg := color.NRGBA{40, 44, 58, 255}
		if d.Name == g.armedName {
			bg = color.NRGBA{70, 100, 150, 255}
		}
		ebitenutil.DrawRect(screen, float64(r.x), float64(r.y), cardW, cardH, bg)
		if d.Name == g.armedName {
			ebitenutil.DrawRect(screen, float64(r.x), float64(r.y), cardW, 2, color.NRGBA{150, 200, 255, 255})
		}
		text.Draw(screen, trim(d.Name, 12), basicfont.Face7x13, r.x+6, r.y+20, color.White)
		if info, ok := types.ByName(d.Name); ok {
			text.Draw(screen, info.Class, basicfont.Face7x13, r.x+6, r.y+38, color.NRGBA{150, 150, 170, 255})
		}
		text.Draw(screen, fmt.Sprintf("x%d", d.Count), basicfont.Face7x13, r.x+6, r.y+cardH-10, color.NRGBA{200, 200, 160, 255})

		x += cardW + pad
		if x+cardW > protocol.ScreenW {
			break
		}
	}
}
