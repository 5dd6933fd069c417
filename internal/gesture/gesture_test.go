package gesture

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

const epsilon = 1e-9

// bits renders a finger state as 0/1 values, thumb first.
func bits(f FingerState) [5]int {
	var out [5]int
	for i, up := range f {
		if up {
			out[i] = 1
		}
	}
	return out
}

func TestGesture_String(t *testing.T) {
	tests := []struct {
		g    Gesture
		want string
	}{
		{None, "None"},
		{PausePlay, "Pause/Play"},
		{Advance10s, "Advance 10s"},
		{Rewind10s, "Rewind 10s"},
		{VolumeUp, "Volume +"},
		{VolumeDown, "Volume -"},
		{Fullscreen, "Fullscreen"},
		{Gesture(42), "Unknown"},
		{Gesture(-1), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.g.String(); got != tt.want {
			t.Errorf("Gesture(%d).String() = %q, want %q", int(tt.g), got, tt.want)
		}
	}
}

func TestGesture_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Gesture{"gesture": VolumeUp})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"gesture":"Volume +"}` {
		t.Errorf("got %s", data)
	}
}

func TestGesture_UnmarshalText(t *testing.T) {
	var got struct {
		Gesture Gesture `json:"gesture"`
	}
	if err := json.Unmarshal([]byte(`{"gesture":"Volume -"}`), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.Gesture != VolumeDown {
		t.Errorf("got %v, want Volume -", got.Gesture)
	}

	var g Gesture
	if err := g.UnmarshalText([]byte("Wave")); err == nil {
		t.Error("expected error for unknown gesture name")
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("expected 6 gestures, got %d", len(all))
	}
	for _, g := range all {
		if g == None {
			t.Error("All() must not contain None")
		}
	}
}

func TestExtract_FingerState(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want [5]int
	}{
		{"fist", detector.FistLandmarks(), [5]int{0, 0, 0, 0, 0}},
		{"peace", detector.PeaceLandmarks(), [5]int{0, 1, 1, 0, 0}},
		{"three fingers", detector.ThreeFingersLandmarks(), [5]int{0, 1, 1, 1, 0}},
		{"thumbs up", detector.ThumbsUpLandmarks(), [5]int{1, 0, 0, 0, 0}},
		{"open palm", detector.OpenPalmLandmarks(), [5]int{1, 1, 1, 1, 1}},
		{"four fingers", detector.FourFingersLandmarks(), [5]int{0, 1, 1, 1, 1}},
		{"pinch", detector.PinchLandmarks(), [5]int{1, 0, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(&tt.hand)
			if got := bits(f.Fingers); got != tt.want {
				t.Errorf("Fingers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract_StrictComparison(t *testing.T) {
	hand := detector.OpenPalmLandmarks()
	// Tip level with its joint is not extended.
	hand.Points[detector.IndexTip].Y = hand.Points[detector.IndexPIP].Y
	hand.Points[detector.ThumbTip].X = hand.Points[detector.ThumbIP].X

	f := Extract(&hand)
	if f.Fingers[Index] {
		t.Error("index tip level with PIP should not count as extended")
	}
	if f.Fingers[Thumb] {
		t.Error("thumb tip level with IP should not count as extended")
	}
}

func TestExtract_Distances(t *testing.T) {
	var hand detector.HandLandmarks
	hand.Points[detector.Wrist] = detector.Point3D{X: 0.5, Y: 0.5, Z: 0.9}
	hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.8, Y: 0.9, Z: -0.4}
	hand.Points[detector.IndexTip] = detector.Point3D{X: 0.5, Y: 0.9}
	hand.Points[detector.MiddleTip] = detector.Point3D{X: 0.5, Y: 0.5}
	hand.Points[detector.RingTip] = detector.Point3D{X: 0.5, Y: 0.5}
	hand.Points[detector.PinkyTip] = detector.Point3D{X: 0.5, Y: 0.5}

	f := Extract(&hand)

	// Depth is ignored: thumb tip is a 3-4-5 triangle away from the wrist.
	if math.Abs(f.TipToWrist[Thumb]-0.5) > epsilon {
		t.Errorf("thumb distance = %f, want 0.5", f.TipToWrist[Thumb])
	}
	if math.Abs(f.TipToWrist[Index]-0.4) > epsilon {
		t.Errorf("index distance = %f, want 0.4", f.TipToWrist[Index])
	}
	if math.Abs(f.MeanTipToWrist-0.18) > epsilon {
		t.Errorf("mean distance = %f, want 0.18", f.MeanTipToWrist)
	}
	if math.Abs(f.ThumbToIndex-0.3) > epsilon {
		t.Errorf("thumb-index distance = %f, want 0.3", f.ThumbToIndex)
	}
}

func TestFingerState_Count(t *testing.T) {
	for mask := 0; mask < 32; mask++ {
		var f FingerState
		want := 0
		for i := range f {
			if mask&(1<<i) != 0 {
				f[i] = true
				want++
			}
		}
		if got := f.Count(); got != want {
			t.Errorf("mask %05b: Count() = %d, want %d", mask, got, want)
		}
		for _, b := range bits(f) {
			if b != 0 && b != 1 {
				t.Errorf("mask %05b: bit %d outside {0,1}", mask, b)
			}
		}
	}
}

func TestPose(t *testing.T) {
	for _, s := range []Strategy{StrategyCounting, StrategyGeometry} {
		for _, g := range All() {
			if Pose(s, g) == "" {
				t.Errorf("Pose(%s, %v) is empty", s, g)
			}
		}
		if Pose(s, None) != "" {
			t.Errorf("Pose(%s, None) should be empty", s)
		}
	}
	if Pose("bogus", PausePlay) != "" {
		t.Error("unknown strategy should have no poses")
	}
	if Pose(StrategyGeometry, VolumeDown) != "Thumbs down" {
		t.Errorf("geometry VolumeDown = %q", Pose(StrategyGeometry, VolumeDown))
	}
}
