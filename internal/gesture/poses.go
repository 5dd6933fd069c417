package gesture

// Pose describes the hand pose that produces g under strategy s.
// It returns "" for None and for unknown strategies.
func Pose(s Strategy, g Gesture) string {
	var poses map[Gesture]string
	switch s {
	case StrategyCounting:
		poses = countingPoses
	case StrategyGeometry:
		poses = geometryPoses
	}
	return poses[g]
}

var countingPoses = map[Gesture]string{
	PausePlay:  "Closed fist (0 fingers)",
	Advance10s: "2 fingers (index + middle)",
	Rewind10s:  "3 fingers",
	VolumeUp:   "Thumb only",
	VolumeDown: "4 fingers (no thumb)",
	Fullscreen: "5 fingers",
}

var geometryPoses = map[Gesture]string{
	PausePlay:  "Closed fist",
	Advance10s: "Peace sign (index + middle)",
	Rewind10s:  "3 fingers",
	VolumeUp:   "Thumbs up",
	VolumeDown: "Thumbs down",
	Fullscreen: "Pinch (thumb + index)",
}
