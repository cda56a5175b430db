// Command headless runs a slimeball session without a window, driven by
// the fixed-delay timer scheduler.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs/system"
	"github.com/milk9111/slimeball/frame"
	"github.com/milk9111/slimeball/prefabs"
	"github.com/milk9111/slimeball/session"
)

type config struct {
	Spec     string
	Frames   int
	Script   string
	LogEvery int
	Delay    time.Duration
}

func main() {
	var cfg config
	flag.StringVar(&cfg.Spec, "spec", "slimeball", "session spec in prefabs/ (basename, .yaml optional)")
	flag.IntVar(&cfg.Frames, "frames", 600, "stop after this many frames (0 runs until interrupted)")
	flag.StringVar(&cfg.Script, "script", "autopilot", "tengo script in prefabs/scripts/ that presses keys (empty for none)")
	flag.IntVar(&cfg.LogEvery, "log-every", common.TPS, "log body state every n frames (0 disables)")
	flag.Parse()
	cfg.Delay = frame.FallbackDelay

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := run(ctx, cfg)
	if err != nil {
		log.Fatalf("headless: %v", err)
	}
	report(sess, sess.Frames())
}

// run builds the session and drives it until cfg.Frames frames ran or ctx
// is done.
func run(ctx context.Context, cfg config) (*session.Session, error) {
	spec, err := prefabs.LoadSessionSpec(cfg.Spec)
	if err != nil {
		return nil, err
	}

	var sources []system.KeySource
	if cfg.Script != "" {
		src, err := system.LoadScriptSource(cfg.Script)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sess *session.Session
	sched := frame.NewTimerScheduler(cfg.Delay)
	sess, err = session.New(spec, sched, session.Options{
		KeySources: sources,
		OnFrame: func(n int) {
			if cfg.LogEvery > 0 && n%cfg.LogEvery == 0 {
				report(sess, n)
			}
			if cfg.Frames > 0 && n >= cfg.Frames {
				cancel()
			}
		},
	})
	if err != nil {
		return nil, err
	}

	log.Printf("headless: running %s every %v", spec.Name, sched.Delay())
	sess.Start()
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return sess, err
	}
	return sess, nil
}

func report(sess *session.Session, n int) {
	p := sess.Player()
	pos, vel := p.Position(), p.Velocity()
	log.Printf("frame %d: player pos=(%.3f, %.3f) vel=(%.3f, %.3f) grounded=%v", n, pos.X, pos.Y, vel.X, vel.Y, sess.Grounded())
	if b := sess.Ball(); b != nil {
		bp, bv := b.Position(), b.Velocity()
		log.Printf("frame %d: ball pos=(%.3f, %.3f) vel=(%.3f, %.3f)", n, bp.X, bp.Y, bv.X, bv.Y)
	}
}
