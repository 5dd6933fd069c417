package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetSequence queues per-frame results. Each Detect call consumes one entry;
// once the queue is drained Detect falls back to the hands set by SetHands.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// finger holds MCP, PIP, DIP and tip positions (CMC, MCP, IP, tip for the thumb).
type finger [4]Point3D

func pt(x, y float64) Point3D { return Point3D{X: x, Y: y} }

// pose assembles a right hand from the wrist and five fingers, thumb first.
func pose(wrist Point3D, fingers [5]finger) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	landmarks.Points[Wrist] = wrist
	for f, joints := range fingers {
		for j, p := range joints {
			landmarks.Points[1+f*4+j] = p
		}
	}
	return landmarks
}

// FistLandmarks returns a closed fist: every fingertip folded close to the wrist.
func FistLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.70), [5]finger{
		{pt(0.55, 0.66), pt(0.58, 0.62), pt(0.57, 0.59), pt(0.60, 0.60)},
		{pt(0.54, 0.58), pt(0.54, 0.54), pt(0.53, 0.58), pt(0.53, 0.61)},
		{pt(0.50, 0.57), pt(0.50, 0.53), pt(0.50, 0.57), pt(0.50, 0.60)},
		{pt(0.46, 0.58), pt(0.46, 0.54), pt(0.47, 0.58), pt(0.47, 0.61)},
		{pt(0.43, 0.60), pt(0.43, 0.57), pt(0.44, 0.60), pt(0.44, 0.62)},
	})
}

// PeaceLandmarks returns a peace sign: index and middle raised, the rest folded.
func PeaceLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.80), [5]finger{
		{pt(0.55, 0.76), pt(0.57, 0.73), pt(0.53, 0.70), pt(0.55, 0.67)},
		{pt(0.55, 0.66), pt(0.56, 0.54), pt(0.57, 0.45), pt(0.58, 0.36)},
		{pt(0.50, 0.65), pt(0.50, 0.52), pt(0.50, 0.42), pt(0.50, 0.33)},
		{pt(0.46, 0.66), pt(0.46, 0.60), pt(0.47, 0.65), pt(0.47, 0.68)},
		{pt(0.42, 0.68), pt(0.42, 0.63), pt(0.43, 0.67), pt(0.43, 0.70)},
	})
}

// ThreeFingersLandmarks returns index, middle and ring raised with thumb and pinky folded.
func ThreeFingersLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.80), [5]finger{
		{pt(0.55, 0.76), pt(0.57, 0.73), pt(0.53, 0.70), pt(0.55, 0.67)},
		{pt(0.55, 0.66), pt(0.56, 0.54), pt(0.57, 0.45), pt(0.58, 0.36)},
		{pt(0.50, 0.65), pt(0.50, 0.52), pt(0.50, 0.42), pt(0.50, 0.33)},
		{pt(0.46, 0.66), pt(0.45, 0.54), pt(0.44, 0.45), pt(0.44, 0.37)},
		{pt(0.42, 0.68), pt(0.42, 0.63), pt(0.43, 0.67), pt(0.43, 0.70)},
	})
}

// ThumbsUpLandmarks returns a thumbs up: the thumb rises tip over IP over MCP
// while the other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.80), [5]finger{
		{pt(0.54, 0.76), pt(0.57, 0.66), pt(0.57, 0.52), pt(0.56, 0.40)},
		{pt(0.55, 0.70), pt(0.55, 0.68), pt(0.52, 0.70), pt(0.50, 0.72)},
		{pt(0.50, 0.68), pt(0.50, 0.66), pt(0.47, 0.68), pt(0.45, 0.70)},
		{pt(0.45, 0.70), pt(0.45, 0.68), pt(0.42, 0.70), pt(0.40, 0.72)},
		{pt(0.40, 0.72), pt(0.40, 0.70), pt(0.37, 0.72), pt(0.35, 0.74)},
	})
}

// ThumbsDownLandmarks returns a thumbs down: the thumb hangs tip below IP below
// MCP while the other fingers are curled.
func ThumbsDownLandmarks() HandLandmarks {
	return pose(pt(0.70, 0.45), [5]finger{
		{pt(0.64, 0.50), pt(0.56, 0.60), pt(0.56, 0.72), pt(0.55, 0.84)},
		{pt(0.54, 0.48), pt(0.54, 0.45), pt(0.52, 0.48), pt(0.51, 0.51)},
		{pt(0.50, 0.47), pt(0.50, 0.44), pt(0.48, 0.47), pt(0.47, 0.50)},
		{pt(0.46, 0.48), pt(0.46, 0.45), pt(0.44, 0.48), pt(0.43, 0.51)},
		{pt(0.42, 0.50), pt(0.42, 0.47), pt(0.40, 0.50), pt(0.39, 0.53)},
	})
}

// PinchLandmarks returns thumb and index tips touching with the other fingers raised.
func PinchLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.80), [5]finger{
		{pt(0.56, 0.76), pt(0.61, 0.70), pt(0.63, 0.63), pt(0.62, 0.57)},
		{pt(0.56, 0.64), pt(0.60, 0.56), pt(0.62, 0.54), pt(0.63, 0.56)},
		{pt(0.50, 0.64), pt(0.50, 0.50), pt(0.50, 0.40), pt(0.50, 0.31)},
		{pt(0.46, 0.65), pt(0.45, 0.52), pt(0.44, 0.43), pt(0.44, 0.35)},
		{pt(0.42, 0.68), pt(0.40, 0.58), pt(0.39, 0.50), pt(0.38, 0.43)},
	})
}

// OpenPalmLandmarks returns an open palm with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.80), [5]finger{
		{pt(0.45, 0.76), pt(0.40, 0.71), pt(0.35, 0.66), pt(0.30, 0.62)},
		{pt(0.44, 0.64), pt(0.43, 0.52), pt(0.42, 0.43), pt(0.42, 0.35)},
		{pt(0.50, 0.63), pt(0.50, 0.50), pt(0.50, 0.40), pt(0.50, 0.30)},
		{pt(0.55, 0.64), pt(0.56, 0.52), pt(0.57, 0.43), pt(0.57, 0.36)},
		{pt(0.60, 0.67), pt(0.62, 0.58), pt(0.63, 0.51), pt(0.64, 0.45)},
	})
}

// FourFingersLandmarks returns an open palm with the thumb tucked toward the palm.
func FourFingersLandmarks() HandLandmarks {
	return pose(pt(0.50, 0.80), [5]finger{
		{pt(0.45, 0.76), pt(0.40, 0.71), pt(0.42, 0.66), pt(0.46, 0.64)},
		{pt(0.44, 0.64), pt(0.43, 0.52), pt(0.42, 0.43), pt(0.42, 0.35)},
		{pt(0.50, 0.63), pt(0.50, 0.50), pt(0.50, 0.40), pt(0.50, 0.30)},
		{pt(0.55, 0.64), pt(0.56, 0.52), pt(0.57, 0.43), pt(0.57, 0.36)},
		{pt(0.60, 0.67), pt(0.62, 0.58), pt(0.63, 0.51), pt(0.64, 0.45)},
	})
}
