//go:build unix

package detector

import (
	"github.com/Anoromi/whatawhat-lib/internal/config"
	"github.com/Anoromi/whatawhat-lib/pkg/integrations/gnome"
	"github.com/Anoromi/whatawhat-lib/pkg/integrations/kde"
	"github.com/Anoromi/whatawhat-lib/pkg/integrations/wlroots"
	"github.com/Anoromi/whatawhat-lib/pkg/integrations/x11"
	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// candidates lists the Linux backends in preference order. GNOME and KDE come
// first because their event sources are richer than generic polling; X11 is
// the portable fallback.
func candidates(cfg *config.Config) []window.Watcher {
	return []window.Watcher{
		gnome.NewWatcher(cfg.Watcher.PollInterval),
		kde.NewWatcher(),
		wlroots.NewWatcher(cfg.Watcher.PollInterval),
		x11.NewWatcher(cfg.Watcher.PollInterval),
	}
}
