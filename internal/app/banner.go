package app

import (
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

const rule = "============================================================"

// Banner returns the startup text listing each pose and the action it triggers.
func Banner(s gesture.Strategy) string {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "MUDRA - gesture media control (%s strategy)\n", s)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Gestures:")
	for _, binding := range action.Bindings() {
		fmt.Fprintf(&b, "  %-30s -> %s (%s)\n", gesture.Pose(s, binding.Gesture), binding.Description, binding.Key)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, overlay.QuitHint)
	fmt.Fprintln(&b, rule)
	return b.String()
}
