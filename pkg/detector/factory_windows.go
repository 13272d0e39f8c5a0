//go:build windows

package detector

import (
	"github.com/Anoromi/whatawhat-lib/internal/config"
	"github.com/Anoromi/whatawhat-lib/pkg/integrations/winapi"
	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

func candidates(cfg *config.Config) []window.Watcher {
	return []window.Watcher{
		winapi.NewWatcher(cfg.Watcher.PollInterval),
	}
}
