package normalize

import (
	"testing"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		desc window.Descriptor
		want window.CanonicalEvent
	}{
		{
			name: "All fields present",
			desc: window.Descriptor{
				ID:            "w1",
				Caption:       window.StringPtr("Inbox"),
				ResourceClass: window.StringPtr("org.kde.kate"),
				ResourceName:  window.StringPtr("kate"),
				PID:           window.PIDPtr(4242),
				Active:        true,
			},
			want: window.CanonicalEvent{
				Caption:       "Inbox",
				ResourceClass: "org.kde.kate",
				ResourceName:  "kate",
				PID:           window.PIDPtr(4242),
			},
		},
		{
			name: "Empty descriptor",
			desc: window.Descriptor{},
			want: window.CanonicalEvent{},
		},
		{
			name: "Caption only",
			desc: window.Descriptor{ID: "w1", Caption: window.StringPtr("Terminal")},
			want: window.CanonicalEvent{Caption: "Terminal"},
		},
		{
			name: "Missing pid maps to absent",
			desc: window.Descriptor{
				ID:            "w1",
				Caption:       window.StringPtr("Drafts"),
				ResourceClass: window.StringPtr("firefox"),
			},
			want: window.CanonicalEvent{Caption: "Drafts", ResourceClass: "firefox"},
		},
		{
			name: "Present but empty strings stay empty",
			desc: window.Descriptor{
				ID:           "w1",
				Caption:      window.StringPtr(""),
				ResourceName: window.StringPtr(""),
			},
			want: window.CanonicalEvent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.desc)

			if got.Caption != tt.want.Caption {
				t.Errorf("Caption = %q, want %q", got.Caption, tt.want.Caption)
			}
			if got.ResourceClass != tt.want.ResourceClass {
				t.Errorf("ResourceClass = %q, want %q", got.ResourceClass, tt.want.ResourceClass)
			}
			if got.ResourceName != tt.want.ResourceName {
				t.Errorf("ResourceName = %q, want %q", got.ResourceName, tt.want.ResourceName)
			}
			switch {
			case tt.want.PID == nil && got.PID != nil:
				t.Errorf("PID = %d, want absent", *got.PID)
			case tt.want.PID != nil && got.PID == nil:
				t.Errorf("PID absent, want %d", *tt.want.PID)
			case tt.want.PID != nil && got.PID != nil && *got.PID != *tt.want.PID:
				t.Errorf("PID = %d, want %d", *got.PID, *tt.want.PID)
			}
		})
	}
}

func TestNormalizeCopiesPID(t *testing.T) {
	pid := int32(100)
	desc := window.Descriptor{ID: "w1", PID: &pid}

	ev := Normalize(desc)
	pid = 999

	if ev.PID == nil || *ev.PID != 100 {
		t.Error("Normalize() must snapshot the pid, not alias the descriptor's pointer")
	}
}
