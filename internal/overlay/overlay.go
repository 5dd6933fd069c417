// Package overlay draws recognition feedback on camera frames and shows them.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// QuitHint is drawn at the bottom of every frame.
const QuitHint = "Press 'q' to quit"

var (
	colorGesture  = color.RGBA{0, 255, 0, 0}
	colorFingers  = color.RGBA{0, 255, 255, 0}
	colorIdle     = color.RGBA{200, 200, 200, 0}
	colorHint     = color.RGBA{255, 255, 255, 0}
	colorPaused   = color.RGBA{0, 0, 255, 0}
	colorLandmark = color.RGBA{0, 0, 255, 0}
	colorSkeleton = color.RGBA{255, 255, 255, 0}
)

// connections are the landmark pairs joined when drawing the hand skeleton.
var connections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Info is what one cycle shows on top of the frame.
type Info struct {
	Hand    *detector.HandLandmarks
	Gesture gesture.Gesture
	Fingers int
	// Paused is set while gesture dispatch is disabled.
	Paused bool
}

// Label is one line of text drawn on the frame.
type Label struct {
	Text  string
	Scale float64
	Color color.RGBA
}

// Labels returns the text lines for info, top to bottom, excluding the quit hint.
func Labels(info Info) []Label {
	var labels []Label
	if info.Hand != nil {
		if info.Gesture != gesture.None {
			labels = append(labels,
				Label{fmt.Sprintf("Gesture: %s", info.Gesture), 1, colorGesture},
				Label{fmt.Sprintf("Fingers: %d", info.Fingers), 0.8, colorFingers},
			)
		} else {
			labels = append(labels, Label{fmt.Sprintf("Fingers: %d", info.Fingers), 0.8, colorIdle})
		}
	}
	if info.Paused {
		labels = append(labels, Label{"Paused", 0.8, colorPaused})
	}
	return labels
}

// Draw renders the hand skeleton and labels onto frame in place.
func Draw(frame *gocv.Mat, info Info) {
	w, h := frame.Cols(), frame.Rows()

	if info.Hand != nil {
		px := func(p detector.Point3D) image.Point {
			return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
		}
		for _, c := range connections {
			gocv.Line(frame, px(info.Hand.Points[c[0]]), px(info.Hand.Points[c[1]]), colorSkeleton, 2)
		}
		for _, p := range info.Hand.Points {
			gocv.Circle(frame, px(p), 4, colorLandmark, -1)
		}
	}

	for i, l := range Labels(info) {
		gocv.PutText(frame, l.Text, image.Pt(10, 50+i*50), gocv.FontHersheySimplex, l.Scale, l.Color, 2)
	}

	gocv.PutText(frame, QuitHint, image.Pt(10, h-20), gocv.FontHersheySimplex, 0.6, colorHint, 1)
}

// Display shows annotated frames to the user.
type Display interface {
	// Show draws info onto frame, presents it and reports whether the user asked to quit.
	Show(frame *gocv.Mat, info Info) (quit bool)
	Close() error
}
