package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/slimeball/frame"
)

// RefreshCandidates lists ebiten's refresh-synchronized frame sources in
// preference order. All of them drive the same tick scheduler from Update.
func RefreshCandidates(tick *frame.TickScheduler) []frame.Candidate {
	newTick := func() frame.Scheduler { return tick }
	return []frame.Candidate{
		{Name: "ebiten.vsync", Available: ebiten.IsVsyncEnabled, New: newTick},
		{Name: "ebiten.fifo", Available: func() bool { return ebiten.TPS() == ebiten.SyncWithFPS }, New: newTick},
		{Name: "ebiten.tick", Available: func() bool { return ebiten.TPS() > 0 }, New: newTick},
	}
}
