// Package gesture turns one hand's landmarks into a named media-control gesture.
package gesture

import "fmt"

// Gesture is the closed set of recognizable gestures.
type Gesture int

const (
	// None means the landmarks matched no gesture.
	None Gesture = iota
	PausePlay
	Advance10s
	Rewind10s
	VolumeUp
	VolumeDown
	Fullscreen

	numGestures
)

var gestureNames = [numGestures]string{
	None:       "None",
	PausePlay:  "Pause/Play",
	Advance10s: "Advance 10s",
	Rewind10s:  "Rewind 10s",
	VolumeUp:   "Volume +",
	VolumeDown: "Volume -",
	Fullscreen: "Fullscreen",
}

// String returns the human-readable gesture name.
func (g Gesture) String() string {
	if g < None || g >= numGestures {
		return "Unknown"
	}
	return gestureNames[g]
}

// MarshalText encodes the gesture by name.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a gesture name produced by MarshalText.
func (g *Gesture) UnmarshalText(text []byte) error {
	for i, name := range gestureNames {
		if name == string(text) {
			*g = Gesture(i)
			return nil
		}
	}
	return fmt.Errorf("unknown gesture %q", text)
}

// All returns every gesture except None, in declaration order.
func All() []Gesture {
	all := make([]Gesture, 0, numGestures-1)
	for g := PausePlay; g < numGestures; g++ {
		all = append(all, g)
	}
	return all
}
