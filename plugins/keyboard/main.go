// Package main is a keyboard plugin for macOS.
// It presses the keys bound to gestures through AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request is the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Params  json.RawMessage `json:"params"`
}

// Response is the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams are the parameters of a keystroke action.
type KeystrokeParams struct {
	Key string `json:"key"`
}

// keyCodes maps non-printable key names to macOS virtual key codes.
var keyCodes = map[string]int{
	"left":  123,
	"right": 124,
	"down":  125,
	"up":    126,
}

// characters maps printable key names to the character typed.
var characters = map[string]string{
	"space": " ",
	"f":     "f",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Action != "keystroke" {
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	script, err := scriptFor(req.Params)
	if err != nil {
		writeResponse(Response{Error: err.Error()})
		return
	}
	if err := runAppleScript(script); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("keystroke failed: %v", err)})
		return
	}

	writeResponse(Response{Success: true})
}

// scriptFor builds the AppleScript that presses the requested key.
func scriptFor(params json.RawMessage) (string, error) {
	var p KeystrokeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return "", fmt.Errorf("failed to parse params: %w", err)
	}
	if p.Key == "" {
		return "", fmt.Errorf("key is required")
	}

	if code, ok := keyCodes[p.Key]; ok {
		return fmt.Sprintf(`tell application "System Events" to key code %d`, code), nil
	}
	if ch, ok := characters[p.Key]; ok {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, ch), nil
	}
	return "", fmt.Errorf("unsupported key: %s", p.Key)
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}

func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
