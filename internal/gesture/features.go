package gesture

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/mudra/internal/detector"
)

// Finger positions inside a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// proximalJoints is the joint each fingertip is compared against for the
// extended test: the thumb IP joint, then the PIP joint of the other fingers.
var proximalJoints = [5]int{
	detector.ThumbIP,
	detector.IndexPIP,
	detector.MiddlePIP,
	detector.RingPIP,
	detector.PinkyPIP,
}

// FingerState records which fingers are extended, thumb first.
type FingerState [5]bool

// Count returns the number of extended fingers.
func (f FingerState) Count() int {
	n := 0
	for _, up := range f {
		if up {
			n++
		}
	}
	return n
}

// Fingers builds a FingerState from thumb, index, middle, ring and pinky flags.
func Fingers(thumb, index, middle, ring, pinky bool) FingerState {
	return FingerState{thumb, index, middle, ring, pinky}
}

// Features is everything the classifiers read from one landmark set.
type Features struct {
	Fingers FingerState

	// TipToWrist is each fingertip's planar distance to the wrist, thumb first.
	TipToWrist [5]float64

	// MeanTipToWrist averages TipToWrist.
	MeanTipToWrist float64

	// ThumbToIndex is the planar distance between the thumb and index tips.
	ThumbToIndex float64
}

// Extract derives the finger state and distances of one hand.
//
// The thumb is extended when its tip lies left of its IP joint; this assumes a
// mirrored camera image. The other fingers are extended when the tip is
// strictly above (smaller y) its PIP joint.
func Extract(hand *detector.HandLandmarks) Features {
	var f Features

	f.Fingers[Thumb] = hand.Points[detector.ThumbTip].X < hand.Points[detector.ThumbIP].X
	for finger := Index; finger <= Pinky; finger++ {
		f.Fingers[finger] = hand.Tip(finger).Y < hand.Points[proximalJoints[finger]].Y
	}

	wrist := planar(hand.Points[detector.Wrist])
	for finger := range f.TipToWrist {
		f.TipToWrist[finger] = planar(hand.Tip(finger)).Distance(wrist)
	}
	f.MeanTipToWrist = stat.Mean(f.TipToWrist[:], nil)

	f.ThumbToIndex = planar(hand.Points[detector.ThumbTip]).Distance(planar(hand.Points[detector.IndexTip]))

	return f
}

// planar drops depth; all gesture geometry is measured in the image plane.
func planar(p detector.Point3D) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y}
}
