package common

// KeyCode is a raw keyboard code as reported by DOM key events.
type KeyCode int

const (
	KeyA KeyCode = 65
	KeyD KeyCode = 68
	KeyW KeyCode = 87
)

func (k KeyCode) String() string {
	switch k {
	case KeyA:
		return "A"
	case KeyD:
		return "D"
	case KeyW:
		return "W"
	default:
		return "?"
	}
}

// ParseKey maps a single-letter key name to its code.
func ParseKey(name string) (KeyCode, bool) {
	switch name {
	case "A", "a":
		return KeyA, true
	case "D", "d":
		return KeyD, true
	case "W", "w":
		return KeyW, true
	default:
		return 0, false
	}
}
