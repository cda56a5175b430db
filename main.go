package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/slimeball/common"
)

func main() {
	specName := flag.String("spec", "slimeball", "session spec in prefabs/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "show body state in the HUD")
	script := flag.String("script", "", "tengo script in prefabs/scripts/ that presses keys")
	watch := flag.Bool("watch", false, "reload the spec and script when they change on disk")
	legacyInput := flag.Bool("legacy-input", false, "apply key events one by one without the held-key set or jump gate")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowSize(common.CanvasWidth, common.CanvasHeight)
	ebiten.SetWindowTitle("slimeball")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(GameOptions{
		SpecName:    *specName,
		Script:      *script,
		Debug:       *debug,
		Watch:       *watch,
		LegacyInput: *legacyInput,
	})
	if err != nil {
		log.Fatalf("slimeball: %v", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
