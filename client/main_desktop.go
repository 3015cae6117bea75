//go:build !android

package main

import (
	"stormkeep/client/internal/game"
)

func main() {
	game.DesktopMain()
}
