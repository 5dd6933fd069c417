package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, dir string, m Manifest) string {
	t.Helper()
	pluginDir := filepath.Join(root, dir)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	pluginDir := writeManifest(t, root, "keyboard", Manifest{
		Name:        "keyboard",
		Version:     "1.0.0",
		Description: "Media keys via AppleScript",
		Executable:  "keyboard",
		Actions:     []string{ActionKeystroke},
	})

	mgr := NewManager(root)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plugins := mgr.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p := plugins[0]
	if p.Manifest.Name != "keyboard" {
		t.Errorf("name = %q", p.Manifest.Name)
	}
	if p.Path != pluginDir {
		t.Errorf("path = %q, want %q", p.Path, pluginDir)
	}
	if p.Executable != filepath.Join(pluginDir, "keyboard") {
		t.Errorf("executable = %q", p.Executable)
	}
	if !p.Supports(ActionKeystroke) {
		t.Error("expected keystroke support")
	}
	if p.Supports("shortcut") {
		t.Error("unexpected shortcut support")
	}
}

func TestManager_Discover_SkipsBadEntries(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "b", Manifest{Name: "b", Executable: "b"})
	writeManifest(t, root, "a", Manifest{Name: "a", Executable: "a"})
	writeManifest(t, root, "nameless", Manifest{Executable: "x"})

	bad := filepath.Join(root, "broken")
	if err := os.MkdirAll(bad, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, "plugin.json"), []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(root)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plugins := mgr.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "a" || plugins[1].Manifest.Name != "b" {
		t.Errorf("List() not sorted: %s, %s", plugins[0].Manifest.Name, plugins[1].Manifest.Name)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
	}{
		{"does not exist", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") }},
		{"empty", func(t *testing.T) string { return t.TempDir() }},
		{"is a file", func(t *testing.T) string {
			f := filepath.Join(t.TempDir(), "file")
			if err := os.WriteFile(f, nil, 0644); err != nil {
				t.Fatal(err)
			}
			return f
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := NewManager(tt.dir(t))
			if err := mgr.Discover(); err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if n := len(mgr.List()); n != 0 {
				t.Errorf("expected 0 plugins, got %d", n)
			}
		})
	}
}

func TestManager_Get(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "kb", Manifest{Name: "keyboard", Version: "2.0.0", Executable: "kb"})

	mgr := NewManager(root)
	if _, err := mgr.Get("keyboard"); !errors.Is(err, ErrPluginNotFound) {
		t.Fatalf("Get() before Discover error = %v, want ErrPluginNotFound", err)
	}

	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	p, err := mgr.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Manifest.Version != "2.0.0" {
		t.Errorf("version = %q", p.Manifest.Version)
	}

	if _, err := mgr.Get("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_PluginDir(t *testing.T) {
	if got := NewManager("/opt/mudra/plugins").PluginDir(); got != "/opt/mudra/plugins" {
		t.Errorf("PluginDir() = %q", got)
	}
}
