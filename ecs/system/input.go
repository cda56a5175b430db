package system

import (
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
)

// KeySource produces key events once per frame.
type KeySource interface {
	KeyEvents(w *ecs.World) []component.KeyEvent
}

// InputSystem collects key events pushed on the world queue and from its
// sources, and hands them to every player's Input in arrival order.
type InputSystem struct {
	sources []KeySource
}

func NewInputSystem(sources ...KeySource) *InputSystem {
	return &InputSystem{sources: append([]KeySource(nil), sources...)}
}

// AddSource appends a key source polled after the existing ones.
func (i *InputSystem) AddSource(src KeySource) {
	if src == nil {
		return
	}
	i.sources = append(i.sources, src)
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var events []component.KeyEvent
	for _, evt := range w.Events().Drain() {
		ke, ok := evt.Data.(component.KeyEvent)
		if !ok {
			continue
		}
		switch evt.Type {
		case ecs.EventKeyDown:
			ke.Down = true
		case ecs.EventKeyUp:
			ke.Down = false
		default:
			continue
		}
		events = append(events, ke)
	}
	for _, src := range i.sources {
		events = append(events, src.KeyEvents(w)...)
	}
	if len(events) == 0 {
		return
	}

	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.InputComponent.Kind()) {
		input, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok {
			continue
		}
		input.Pending = append(input.Pending, events...)
	}
}
