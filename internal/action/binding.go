// Package action turns accepted gestures into injected key presses.
package action

import "github.com/ayusman/mudra/internal/gesture"

// Key names understood by the injectors.
const (
	KeySpace = "space"
	KeyRight = "right"
	KeyLeft  = "left"
	KeyUp    = "up"
	KeyDown  = "down"
	KeyF     = "f"
)

// Binding ties a gesture to the key it presses and a human-readable description.
type Binding struct {
	Gesture     gesture.Gesture `json:"gesture"`
	Key         string          `json:"key"`
	Description string          `json:"description"`
}

// Lookup returns the binding for g. Every gesture except None is bound.
func Lookup(g gesture.Gesture) (Binding, bool) {
	switch g {
	case gesture.PausePlay:
		return Binding{g, KeySpace, "Pause/Play"}, true
	case gesture.Advance10s:
		return Binding{g, KeyRight, "Advance 10 seconds"}, true
	case gesture.Rewind10s:
		return Binding{g, KeyLeft, "Rewind 10 seconds"}, true
	case gesture.VolumeUp:
		return Binding{g, KeyUp, "Volume +"}, true
	case gesture.VolumeDown:
		return Binding{g, KeyDown, "Volume -"}, true
	case gesture.Fullscreen:
		return Binding{g, KeyF, "Fullscreen"}, true
	}
	return Binding{}, false
}

// Bindings returns the binding of every gesture, in gesture order.
func Bindings() []Binding {
	all := gesture.All()
	bindings := make([]Binding, 0, len(all))
	for _, g := range all {
		if b, ok := Lookup(g); ok {
			bindings = append(bindings, b)
		}
	}
	return bindings
}
