package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs/component"
)

// Key auto-repeat timing in ticks, close to a typical OS keyboard.
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 3
)

var keyCodes = map[ebiten.Key]common.KeyCode{
	ebiten.KeyW: common.KeyW,
	ebiten.KeyD: common.KeyD,
	ebiten.KeyA: common.KeyA,
}

// KeyboardSource turns ebiten's polled keyboard state into key-down,
// auto-repeat and key-up events.
type KeyboardSource struct {
	pressed  []ebiten.Key
	released []ebiten.Key
}

func NewKeyboardSource() *KeyboardSource {
	return &KeyboardSource{}
}

// Poll returns the events for this tick, releases first.
func (k *KeyboardSource) Poll() []component.KeyEvent {
	var out []component.KeyEvent

	k.released = inpututil.AppendJustReleasedKeys(k.released[:0])
	for _, key := range k.released {
		if code, ok := keyCodes[key]; ok {
			out = append(out, component.KeyEvent{Code: code})
		}
	}

	k.pressed = inpututil.AppendPressedKeys(k.pressed[:0])
	for _, key := range k.pressed {
		code, ok := keyCodes[key]
		if !ok {
			continue
		}
		d := inpututil.KeyPressDuration(key)
		switch {
		case d == 1:
			out = append(out, component.KeyEvent{Code: code, Down: true})
		case isRepeatTick(d):
			out = append(out, component.KeyEvent{Code: code, Down: true, Repeat: true})
		}
	}
	return out
}

func isRepeatTick(d int) bool {
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}
