package dedup

import (
	"testing"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		name   string
		active bool
		isNew  bool
		want   bool
	}{
		{
			name:   "Inactive repeat observation is suppressed",
			active: false,
			isNew:  false,
			want:   false,
		},
		{
			name:   "First sight while active",
			active: true,
			isNew:  true,
			want:   true,
		},
		{
			name:   "First sight while inactive still reported",
			active: false,
			isNew:  true,
			want:   true,
		},
		{
			name:   "Change while focused",
			active: true,
			isNew:  false,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := window.Descriptor{ID: "w1", Active: tt.active}
			if got := ShouldNotify(desc, tt.isNew); got != tt.want {
				t.Errorf("ShouldNotify(active=%v, isNew=%v) = %v, want %v",
					tt.active, tt.isNew, got, tt.want)
			}
		})
	}
}
