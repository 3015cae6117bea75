package game

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"stormkeep/shared/protocol"
)

func (g *Game) handleResultsClick(mx, my int) {
	if g.continueBtn.hit(mx, my) {
		g.session.Close()
		return
	}
	if g.copyBtn.hit(mx, my) && g.endResult != nil {
		if err := clipboard.WriteAll(g.battleReport()); err != nil {
			log.Printf("UI: clipboard copy failed: %v", err)
			return
		}
		g.reportCopied = true
	}
}

func (g *Game) battleReport() string {
	r := g.endResult
	opp := g.session.Opponent()
	outcome := "Defeat"
	if r.Victory {
		outcome = "Victory"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Stormkeep raid report\n")
	fmt.Fprintf(&b, "Opponent: %s (Lv %d)\n", opp.Name, opp.Level)
	fmt.Fprintf(&b, "Outcome: %s\n", outcome)
	fmt.Fprintf(&b, "Stars: %d/%d\n", r.Stars, protocol.StarsMax)
	fmt.Fprintf(&b, "Destruction: %.1f%%\n", r.DestructionPercent)
	fmt.Fprintf(&b, "Reward: %d gold, %d xp\n", r.RewardGold, r.RewardXP)
	return b.String()
}

func (g *Game) drawResultsOverlay(screen *ebiten.Image) {
	if g.endResult == nil {
		return
	}
	r := g.endResult

	ebitenutil.DrawRect(screen, 0, 0, float64(protocol.ScreenW), float64(protocol.ScreenH), color.NRGBA{0, 0, 0, 140})

	w, h := 360, 240
	x := (protocol.ScreenW - w) / 2
	y := (protocol.ScreenH - h) / 2
	ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), color.NRGBA{30, 30, 45, 240})

	title := "Defeat"
	tc := color.NRGBA{220, 120, 120, 255}
	if r.Victory {
		title = "Victory!"
		tc = color.NRGBA{240, 200, 60, 255}
	}
	text.Draw(screen, title, basicfont.Face7x13, x+20, y+36, tc)

	for i := 0; i < protocol.StarsMax; i++ {
		c := color.NRGBA{70, 70, 80, 255}
		if i < r.Stars {
			c = color.NRGBA{240, 200, 60, 255}
		}
		ebitenutil.DrawRect(screen, float64(x+20+i*26), float64(y+52), 20, 20, c)
	}

	text.Draw(screen, fmt.Sprintf("Destruction: %.1f%%", r.DestructionPercent), basicfont.Face7x13, x+20, y+100, color.White)
	text.Draw(screen, fmt.Sprintf("Reward: %d gold, %d xp", r.RewardGold, r.RewardXP), basicfont.Face7x13, x+20, y+122, color.White)

	g.copyBtn = rect{x: x + 20, y: y + h - 50, w: btnW, h: btnH}
	ebitenutil.DrawRect(screen, float64(g.copyBtn.x), float64(g.copyBtn.y), btnW, btnH, color.NRGBA{60, 70, 100, 255})
	label := "Copy report"
	if g.reportCopied {
		label = "Copied!"
	}
	text.Draw(screen, label, basicfont.Face7x13, g.copyBtn.x+20, g.copyBtn.y+20, color.White)

	g.continueBtn = rect{x: x + w - btnW - 20, y: y + h - 50, w: btnW, h: btnH}
	ebitenutil.DrawRect(screen, float64(g.continueBtn.x), float64(g.continueBtn.y), btnW, btnH, color.NRGBA{70, 110, 70, 255})
	text.Draw(screen, "Continue", basicfont.Face7x13, g.continueBtn.x+26, g.continueBtn.y+20, color.White)
}
