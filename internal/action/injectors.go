package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/mudra/internal/plugin"
)

// RobotgoInjector presses keys with robotgo.
type RobotgoInjector struct{}

// Inject implements Injector.
func (RobotgoInjector) Inject(_ context.Context, b Binding) error {
	return robotgo.KeyTap(b.Key)
}

// PluginInjector presses keys by running a keyboard plugin.
type PluginInjector struct {
	plugin   *plugin.Plugin
	executor *plugin.Executor
}

// keystrokeParams is the params payload of a "keystroke" plugin request.
type keystrokeParams struct {
	Key string `json:"key"`
}

// NewPluginInjector resolves the named plugin from mgr.
func NewPluginInjector(mgr *plugin.Manager, name string, executor *plugin.Executor) (*PluginInjector, error) {
	p, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("keyboard plugin %q: %w", name, err)
	}
	if !p.Supports(plugin.ActionKeystroke) {
		return nil, fmt.Errorf("plugin %q does not support %q", name, plugin.ActionKeystroke)
	}
	return &PluginInjector{plugin: p, executor: executor}, nil
}

// Inject implements Injector.
func (i *PluginInjector) Inject(ctx context.Context, b Binding) error {
	params, err := json.Marshal(keystrokeParams{Key: b.Key})
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	resp, err := i.executor.Execute(ctx, i.plugin, &plugin.Request{
		Action:  plugin.ActionKeystroke,
		Gesture: b.Gesture.String(),
		Params:  params,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", i.plugin.Manifest.Name, resp.Error)
	}
	return nil
}

// ErrInjectionFailed is returned by a RecordingInjector set to fail.
var ErrInjectionFailed = errors.New("injection failed")

// RecordingInjector remembers every binding it is asked to press.
// It is used for headless runs and tests.
type RecordingInjector struct {
	mu      sync.Mutex
	pressed []Binding
	fail    bool
}

// NewRecordingInjector creates an empty RecordingInjector.
func NewRecordingInjector() *RecordingInjector {
	return &RecordingInjector{}
}

// SetFail makes subsequent Inject calls record the binding and return ErrInjectionFailed.
func (r *RecordingInjector) SetFail(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

// Inject implements Injector.
func (r *RecordingInjector) Inject(_ context.Context, b Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pressed = append(r.pressed, b)
	if r.fail {
		return ErrInjectionFailed
	}
	return nil
}

// Pressed returns a copy of the recorded bindings.
func (r *RecordingInjector) Pressed() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Binding(nil), r.pressed...)
}
