package gesture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

// Strategy names a classification strategy.
type Strategy string

const (
	// StrategyCounting classifies on which fingers are extended.
	StrategyCounting Strategy = "counting"
	// StrategyGeometry classifies on landmark geometry, falling back to counting.
	StrategyGeometry Strategy = "geometry"
)

// ErrUnknownStrategy is returned for a strategy name that is not supported.
var ErrUnknownStrategy = errors.New("unknown classifier strategy")

// ParseStrategy converts a configuration value into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyCounting, StrategyGeometry:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Default thresholds, in normalized image units.
const (
	DefaultFistThreshold  = 0.15
	DefaultPinchThreshold = 0.05
)

// Thresholds holds the distance limits used by the geometry strategy.
type Thresholds struct {
	// Fist is the mean fingertip-to-wrist distance below which the hand is a fist.
	Fist float64
	// Pinch is the thumb-to-index tip distance below which the hand pinches.
	Pinch float64
}

// DefaultThresholds returns the stock fist and pinch thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Fist:  DefaultFistThreshold,
		Pinch: DefaultPinchThreshold,
	}
}

// Classifier maps one hand to a gesture. Implementations are pure: the same
// input always yields the same gesture.
type Classifier interface {
	Strategy() Strategy
	// Classify returns the first gesture whose rule matches, or None.
	// hand may be nil for strategies that only read features.
	Classify(hand *detector.HandLandmarks, f Features) Gesture
}

// NewClassifier builds the classifier for the given strategy.
func NewClassifier(s Strategy, t Thresholds) (Classifier, error) {
	switch s {
	case StrategyCounting:
		return CountingClassifier{}, nil
	case StrategyGeometry:
		return GeometryClassifier{Thresholds: t}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// rule is one entry of a precedence list.
type rule struct {
	gesture Gesture
	match   func(hand *detector.HandLandmarks, f Features) bool
}

// firstMatch evaluates rules in order; the earliest match wins.
func firstMatch(rules []rule, hand *detector.HandLandmarks, f Features) Gesture {
	for _, r := range rules {
		if r.match(hand, f) {
			return r.gesture
		}
	}
	return None
}

// CountingClassifier classifies purely on the count and identity of extended fingers.
type CountingClassifier struct{}

var countingRules = []rule{
	{PausePlay, func(_ *detector.HandLandmarks, f Features) bool {
		return f.Fingers.Count() == 0
	}},
	{Advance10s, func(_ *detector.HandLandmarks, f Features) bool {
		return f.Fingers.Count() == 2 && f.Fingers[Index] && f.Fingers[Middle]
	}},
	{Rewind10s, func(_ *detector.HandLandmarks, f Features) bool {
		return f.Fingers.Count() == 3
	}},
	{VolumeUp, func(_ *detector.HandLandmarks, f Features) bool {
		return f.Fingers.Count() == 1 && f.Fingers[Thumb]
	}},
	{VolumeDown, func(_ *detector.HandLandmarks, f Features) bool {
		return f.Fingers.Count() == 4 && !f.Fingers[Thumb]
	}},
	{Fullscreen, func(_ *detector.HandLandmarks, f Features) bool {
		return f.Fingers.Count() == 5
	}},
}

// Strategy implements Classifier.
func (CountingClassifier) Strategy() Strategy { return StrategyCounting }

// Classify implements Classifier.
func (CountingClassifier) Classify(_ *detector.HandLandmarks, f Features) Gesture {
	return firstMatch(countingRules, nil, f)
}

// ClassifyFingers classifies a bare finger state.
func (c CountingClassifier) ClassifyFingers(fingers FingerState) Gesture {
	return c.Classify(nil, Features{Fingers: fingers})
}

// GeometryClassifier recognizes fist, peace sign, thumbs up/down and pinch
// from landmark geometry, then falls back to the extended-finger count.
type GeometryClassifier struct {
	Thresholds Thresholds
}

// Strategy implements Classifier.
func (GeometryClassifier) Strategy() Strategy { return StrategyGeometry }

// Classify implements Classifier. A nil hand yields None.
func (c GeometryClassifier) Classify(hand *detector.HandLandmarks, f Features) Gesture {
	if hand == nil {
		return None
	}
	return firstMatch(c.rules(), hand, f)
}

func (c GeometryClassifier) rules() []rule {
	return []rule{
		{PausePlay, func(_ *detector.HandLandmarks, f Features) bool {
			return f.MeanTipToWrist < c.Thresholds.Fist
		}},
		{Advance10s, isPeaceSign},
		{VolumeUp, func(h *detector.HandLandmarks, _ Features) bool {
			return thumbRising(h) && fingersFolded(h)
		}},
		{VolumeDown, func(h *detector.HandLandmarks, _ Features) bool {
			return thumbFalling(h) && fingersFolded(h)
		}},
		{Fullscreen, func(_ *detector.HandLandmarks, f Features) bool {
			return f.ThumbToIndex < c.Thresholds.Pinch
		}},
		{Rewind10s, func(_ *detector.HandLandmarks, f Features) bool {
			return f.Fingers.Count() == 3
		}},
	}
}

func above(h *detector.HandLandmarks, a, b int) bool {
	return h.Points[a].Y < h.Points[b].Y
}

func isPeaceSign(h *detector.HandLandmarks, _ Features) bool {
	return above(h, detector.IndexTip, detector.IndexPIP) &&
		above(h, detector.MiddleTip, detector.MiddlePIP) &&
		above(h, detector.RingPIP, detector.RingTip) &&
		above(h, detector.PinkyPIP, detector.PinkyTip)
}

// thumbRising reports tip above IP above MCP.
func thumbRising(h *detector.HandLandmarks) bool {
	return above(h, detector.ThumbTip, detector.ThumbIP) && above(h, detector.ThumbIP, detector.ThumbMCP)
}

// thumbFalling reports tip below IP below MCP.
func thumbFalling(h *detector.HandLandmarks) bool {
	return above(h, detector.ThumbIP, detector.ThumbTip) && above(h, detector.ThumbMCP, detector.ThumbIP)
}

// fingersFolded reports every non-thumb tip below the landmark two joints back.
func fingersFolded(h *detector.HandLandmarks) bool {
	for _, tip := range detector.FingerTips[1:] {
		if !above(h, tip-2, tip) {
			return false
		}
	}
	return true
}

// ClassifyHand extracts features from hand and classifies them with c.
func ClassifyHand(c Classifier, hand *detector.HandLandmarks) Gesture {
	return c.Classify(hand, Extract(hand))
}
