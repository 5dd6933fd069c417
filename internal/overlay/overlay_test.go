package overlay

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestLabels(t *testing.T) {
	hand := detector.PeaceLandmarks()

	tests := []struct {
		name string
		info Info
		want []string
	}{
		{"no hand", Info{}, nil},
		{"hand with gesture", Info{Hand: &hand, Gesture: gesture.Advance10s, Fingers: 2},
			[]string{"Gesture: Advance 10s", "Fingers: 2"}},
		{"hand without gesture", Info{Hand: &hand, Fingers: 4}, []string{"Fingers: 4"}},
		{"paused", Info{Paused: true}, []string{"Paused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := Labels(tt.info)
			if len(labels) != len(tt.want) {
				t.Fatalf("got %d labels, want %d", len(labels), len(tt.want))
			}
			for i, l := range labels {
				if l.Text != tt.want[i] {
					t.Errorf("label %d = %q, want %q", i, l.Text, tt.want[i])
				}
			}
		})
	}
}

func TestConnections_InRange(t *testing.T) {
	for _, c := range connections {
		for _, idx := range c {
			if idx < 0 || idx >= detector.NumLandmarks {
				t.Errorf("connection %v out of range", c)
			}
		}
	}
}

func TestDraw_MarksFrame(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	hand := detector.FistLandmarks()
	Draw(&frame, Info{Hand: &hand, Gesture: gesture.PausePlay})

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("Draw left the frame blank")
	}
}

func TestHeadless(t *testing.T) {
	var d Display = &Headless{}
	for i := 0; i < 3; i++ {
		if d.Show(nil, Info{}) {
			t.Fatal("headless display must never quit")
		}
	}
	if got := d.(*Headless).Shown(); got != 3 {
		t.Errorf("Shown() = %d, want 3", got)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
