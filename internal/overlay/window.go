package overlay

import "gocv.io/x/gocv"

// WindowTitle is the title of the preview window.
const WindowTitle = "Mudra - Gesture Media Control"

// Window is a Display backed by an OpenCV HighGUI window.
// It must be created and used from the main OS thread.
type Window struct {
	window *gocv.Window
}

// NewWindow opens the preview window.
func NewWindow() *Window {
	return &Window{window: gocv.NewWindow(WindowTitle)}
}

// Show implements Display. Pressing 'q' or closing the window quits.
func (w *Window) Show(frame *gocv.Mat, info Info) bool {
	Draw(frame, info)
	w.window.IMShow(*frame)

	key := w.window.WaitKey(1)
	if key&0xFF == 'q' {
		return true
	}
	return !w.window.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless is a Display that draws nothing and never quits.
type Headless struct {
	shown int
}

// Show implements Display.
func (h *Headless) Show(*gocv.Mat, Info) bool {
	h.shown++
	return false
}

// Shown returns how many frames were presented.
func (h *Headless) Shown() int { return h.shown }

// Close implements Display.
func (h *Headless) Close() error { return nil }
