package component

import "github.com/milk9111/slimeball/common"

// KeyEvent is one key-down or key-up delivered by a key source.
type KeyEvent struct {
	Code   common.KeyCode
	Down   bool
	Repeat bool
}

// Input stores keyboard state for the controlled player.
type Input struct {
	// Held lists the movement keys currently down, oldest first.
	Held []common.KeyCode
	// JumpRequests counts W key-downs (repeats included) since the last frame.
	JumpRequests int
	// Pending holds events not yet applied by the controller.
	Pending []KeyEvent
	// WasMoving records whether a movement key was held last frame.
	WasMoving bool
}

// Press marks code as held, moving it to the most recent position.
func (in *Input) Press(code common.KeyCode) {
	in.Release(code)
	in.Held = append(in.Held, code)
}

// Release drops code from the held set.
func (in *Input) Release(code common.KeyCode) {
	out := in.Held[:0]
	for _, k := range in.Held {
		if k != code {
			out = append(out, k)
		}
	}
	in.Held = out
}

// Direction returns -1, 0 or +1 from the most recently pressed held
// movement key.
func (in *Input) Direction() float64 {
	for i := len(in.Held) - 1; i >= 0; i-- {
		switch in.Held[i] {
		case common.KeyD:
			return 1
		case common.KeyA:
			return -1
		}
	}
	return 0
}

var InputComponent = NewComponent[Input]()
