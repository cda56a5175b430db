package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/prefabs"
)

// ScriptSource runs a tengo script once per frame. The script sees the
// frame number as `frame` and presses keys through `engine`.
type ScriptSource struct {
	name     string
	compiled *tengo.Compiled
	frame    int
	disabled bool

	events   []component.KeyEvent
	grounded bool
}

// LoadScriptSource compiles a script from prefabs/scripts.
func LoadScriptSource(name string) (*ScriptSource, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return NewScriptSource(name, src)
}

// NewScriptSource compiles src.
func NewScriptSource(name string, src []byte) (*ScriptSource, error) {
	s := &ScriptSource{name: name}

	script := tengo.NewScript(src)
	_ = script.Add("frame", 0)
	_ = script.Add("engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	s.compiled = compiled
	return s, nil
}

// Frame returns how many frames the script has run.
func (s *ScriptSource) Frame() int {
	return s.frame
}

func (s *ScriptSource) KeyEvents(w *ecs.World) []component.KeyEvent {
	if s == nil || s.compiled == nil || s.disabled {
		return nil
	}

	s.events = s.events[:0]
	s.grounded = playerGrounded(w)

	if err := s.run(); err != nil {
		log.Printf("script: %s frame %d: %v; disabling", s.name, s.frame, err)
		s.disabled = true
		return nil
	}
	s.frame++
	return append([]component.KeyEvent(nil), s.events...)
}

func (s *ScriptSource) run() error {
	if err := s.compiled.Set("frame", s.frame); err != nil {
		return err
	}
	if err := s.compiled.Set("engine", s.engine()); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *ScriptSource) engine() *tengo.ImmutableMap {
	key := func(down bool) tengo.CallableFunc {
		return func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return tengo.FalseValue, nil
			}
			code, ok := common.ParseKey(strings.TrimSpace(objectAsString(args[0])))
			if !ok {
				return tengo.FalseValue, nil
			}
			s.events = append(s.events, component.KeyEvent{Code: code, Down: down})
			return tengo.TrueValue, nil
		}
	}

	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"press":   &tengo.UserFunction{Name: "press", Value: key(true)},
		"release": &tengo.UserFunction{Name: "release", Value: key(false)},
		"grounded": &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if s.grounded {
				return tengo.TrueValue, nil
			}
			return tengo.FalseValue, nil
		}},
	}}
}

func playerGrounded(w *ecs.World) bool {
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return false
	}
	pc, ok := ecs.Get(w, player, component.PlayerCollisionComponent.Kind())
	return ok && pc.Grounded()
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
