// Package wlroots watches the active window on wlroots style compositors.
// There is no common protocol for focus observation, so the watcher polls the
// compositor's own CLI tool, swaymsg for Sway and hyprctl for Hyprland, and
// diffs the focused node.
package wlroots

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// Watcher implements window.Watcher for Sway and Hyprland
type Watcher struct {
	pollInterval time.Duration
	compositor   string

	lastPID   int32
	lastTitle string
}

// NewWatcher creates a wlroots watcher polling at the given interval.
func NewWatcher(pollInterval time.Duration) *Watcher {
	w := &Watcher{pollInterval: pollInterval}
	w.detectCompositor()
	return w
}

// detectCompositor probes for a running compositor process.
func (w *Watcher) detectCompositor() {
	for process, name := range map[string]string{
		"sway":     "sway",
		"Hyprland": "hyprland",
	} {
		if err := exec.Command("pgrep", "-x", process).Run(); err == nil {
			w.compositor = name
			return
		}
	}
}

// Name returns the detected compositor name, "wlroots" before detection.
func (w *Watcher) Name() string {
	if w.compositor == "" {
		return "wlroots"
	}
	return w.compositor
}

// IsAvailable checks that a known compositor runs and its CLI tool is in PATH.
func (w *Watcher) IsAvailable() bool {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return false
	}

	switch w.compositor {
	case "sway":
		_, err := exec.LookPath("swaymsg")
		return err == nil
	case "hyprland":
		_, err := exec.LookPath("hyprctl")
		return err == nil
	default:
		return false
	}
}

// Run polls until ctx is cancelled, emitting one event per observed change.
func (w *Watcher) Run(ctx context.Context, emit window.EmitFunc) error {
	if w.compositor == "" {
		return fmt.Errorf("no supported wlroots compositor detected")
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.pollOnce(ctx, emit)
		}
	}
}

func (w *Watcher) pollOnce(ctx context.Context, emit window.EmitFunc) {
	var desc *window.Descriptor
	var err error

	switch w.compositor {
	case "sway":
		desc, err = w.focusedSway(ctx)
	case "hyprland":
		desc, err = w.focusedHyprland(ctx)
	}
	if err != nil || desc == nil {
		return
	}

	pid := int32(0)
	if desc.PID != nil {
		pid = *desc.PID
	}
	title := ""
	if desc.Caption != nil {
		title = *desc.Caption
	}

	switch {
	case pid != w.lastPID:
		w.lastPID = pid
		w.lastTitle = title
		emit(*desc, window.SignalActivated)
	case title != w.lastTitle:
		w.lastTitle = title
		emit(*desc, window.SignalPropertyChanged)
	}
}

// swayNode is the subset of the sway tree layout needed to find focus.
type swayNode struct {
	Name          string     `json:"name"`
	AppID         string     `json:"app_id"`
	PID           int32      `json:"pid"`
	Focused       bool       `json:"focused"`
	WindowProps   *swayProps `json:"window_properties"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

type swayProps struct {
	Class    string `json:"class"`
	Instance string `json:"instance"`
}

func (w *Watcher) focusedSway(ctx context.Context) (*window.Descriptor, error) {
	output, err := exec.CommandContext(ctx, "swaymsg", "-t", "get_tree").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute swaymsg: %w", err)
	}

	var root swayNode
	if err := json.Unmarshal(output, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	node := findFocused(&root)
	if node == nil {
		return nil, nil
	}
	return describeSway(node), nil
}

// findFocused walks the sway tree for the focused leaf.
func findFocused(node *swayNode) *swayNode {
	if node.Focused {
		return node
	}
	for i := range node.Nodes {
		if found := findFocused(&node.Nodes[i]); found != nil {
			return found
		}
	}
	for i := range node.FloatingNodes {
		if found := findFocused(&node.FloatingNodes[i]); found != nil {
			return found
		}
	}
	return nil
}

// describeSway maps a focused sway node to a descriptor. Native windows carry
// an app_id; XWayland windows carry window_properties instead.
func describeSway(node *swayNode) *window.Descriptor {
	desc := &window.Descriptor{
		ID:     window.ID(fmt.Sprintf("sway-%d", node.PID)),
		Active: true,
	}
	if node.Name != "" {
		name := node.Name
		desc.Caption = &name
	}
	if node.PID != 0 {
		pid := node.PID
		desc.PID = &pid
	}

	switch {
	case node.AppID != "":
		appID := node.AppID
		desc.ResourceClass = &appID
		desc.ResourceName = &appID
	case node.WindowProps != nil:
		if node.WindowProps.Class != "" {
			class := node.WindowProps.Class
			desc.ResourceClass = &class
		}
		if node.WindowProps.Instance != "" {
			instance := node.WindowProps.Instance
			desc.ResourceName = &instance
		}
	}
	return desc
}

// hyprlandWindow is the JSON shape of hyprctl activewindow -j.
type hyprlandWindow struct {
	Address      string `json:"address"`
	Title        string `json:"title"`
	Class        string `json:"class"`
	InitialClass string `json:"initialClass"`
	PID          int32  `json:"pid"`
}

func (w *Watcher) focusedHyprland(ctx context.Context) (*window.Descriptor, error) {
	output, err := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute hyprctl: %w", err)
	}
	return parseHyprlandWindow(output)
}

func parseHyprlandWindow(output []byte) (*window.Descriptor, error) {
	var win hyprlandWindow
	if err := json.Unmarshal(output, &win); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	// hyprctl prints an empty object when nothing has focus.
	if win.Address == "" {
		return nil, nil
	}

	desc := &window.Descriptor{
		ID:     window.ID(win.Address),
		Active: true,
	}
	if win.Title != "" {
		title := win.Title
		desc.Caption = &title
	}
	if win.Class != "" {
		class := win.Class
		desc.ResourceClass = &class
	}
	name := win.InitialClass
	if name == "" {
		name = win.Class
	}
	if name != "" {
		desc.ResourceName = &name
	}
	if win.PID != 0 {
		pid := win.PID
		desc.PID = &pid
	}
	return desc, nil
}

// Close is a no-op, polling holds no resources
func (w *Watcher) Close() error {
	return nil
}
