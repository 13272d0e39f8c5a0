// Package dedup decides, per window, whether a new observation is novel enough
// to notify the consumer.
package dedup

import "github.com/Anoromi/whatawhat-lib/pkg/window"

// ShouldNotify applies the change-detection policy, in order:
//
//  1. First observation of an identity is always reported, regardless of
//     active state, so the consumer gets a baseline record per window.
//  2. An inactive window never notifies. Property changes on unfocused
//     windows are very frequent and not useful.
//  3. Otherwise notify iff the window currently holds focus: a caption change
//     while active (a renamed tab, a navigated page) must be reported because
//     activity history keys on title text.
func ShouldNotify(desc window.Descriptor, isNew bool) bool {
	if isNew {
		return true
	}
	return desc.Active
}
