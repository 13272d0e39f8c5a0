package sink

import (
	"testing"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

func TestMethodArgs(t *testing.T) {
	tests := []struct {
		name    string
		ev      window.CanonicalEvent
		wantPID int32
	}{
		{
			name: "Known pid passes through",
			ev: window.CanonicalEvent{
				Caption:       "Inbox",
				ResourceClass: "org.mozilla.firefox",
				ResourceName:  "firefox",
				PID:           window.PIDPtr(1234),
			},
			wantPID: 1234,
		},
		{
			name:    "Absent pid maps to the unknown marker",
			ev:      window.CanonicalEvent{Caption: "Terminal"},
			wantPID: UnknownPID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caption, class, name, pid := MethodArgs(tt.ev)
			if caption != tt.ev.Caption {
				t.Errorf("caption = %q, want %q", caption, tt.ev.Caption)
			}
			if class != tt.ev.ResourceClass {
				t.Errorf("resourceClass = %q, want %q", class, tt.ev.ResourceClass)
			}
			if name != tt.ev.ResourceName {
				t.Errorf("resourceName = %q, want %q", name, tt.ev.ResourceName)
			}
			if pid != tt.wantPID {
				t.Errorf("pid = %d, want %d", pid, tt.wantPID)
			}
		})
	}
}

func TestWireConstants(t *testing.T) {
	// The triple is a wire contract shared with the recorder and the KWin
	// script; a drift here breaks delivery silently.
	if ServiceName != "com.github.anoromi.whatawhat_lib" {
		t.Errorf("ServiceName = %q", ServiceName)
	}
	if ObjectPath != "/com/github/anoromi/whatawhat_lib" {
		t.Errorf("ObjectPath = %q", ObjectPath)
	}
	if MethodName != "com.github.anoromi.whatawhat_lib.NotifyActiveWindow" {
		t.Errorf("MethodName = %q", MethodName)
	}
}
