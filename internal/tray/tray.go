// Package tray provides a system tray menu to pause, resume and quit gesture control.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Menu titles.
const (
	TitleEnabled  = "● Gestures enabled"
	TitleDisabled = "○ Gestures paused"
	lastNone      = "Last: none"
)

// Tray is the system tray menu. Run must be called from the main goroutine.
type Tray struct {
	onToggle     func(enabled bool)
	onOpenStatus func()
	onQuit       func()
	enabled      bool
	lastGesture  string
	mu           sync.RWMutex

	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray showing the given enabled state.
func New(enabled bool) *Tray {
	return &Tray{enabled: enabled}
}

// OnToggle sets the function called with the new state when the toggle item is clicked.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenStatus adds an "Open status page" item calling fn. Must be set before Run.
func (t *Tray) OnOpenStatus(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenStatus = fn
}

// OnQuit sets the function called when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run shows the tray and blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra gesture media control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume gesture control")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.lastGesture), "Last accepted gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	var statusCh <-chan struct{}
	if t.onOpenStatus != nil {
		statusCh = systray.AddMenuItem("Open status page", "Open the status page in a browser").ClickedCh
		systray.AddSeparator()
	}
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")
	toggleCh := t.menuToggle.ClickedCh
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-toggleCh:
				t.handleToggle()
			case <-statusCh:
				t.handleOpenStatus()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return TitleEnabled
	}
	return TitleDisabled
}

func lastTitle(name string) string {
	if name == "" {
		return lastNone
	}
	return "Last: " + name
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpenStatus() {
	t.mu.RLock()
	callback := t.onOpenStatus
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the "Last:" menu item.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastGesture = name
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(name))
	}
}

// LastGesture returns the name shown in the "Last:" item.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastGesture
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
