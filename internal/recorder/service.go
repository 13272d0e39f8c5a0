// Package recorder implements the consumer side of the notification contract:
// it claims the well-known bus name, exports NotifyActiveWindow, and appends
// every received notification to the activity history.
package recorder

import (
	"fmt"
	"log"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/Anoromi/whatawhat-lib/internal/cache"
	"github.com/Anoromi/whatawhat-lib/internal/config"
	"github.com/Anoromi/whatawhat-lib/internal/database"
	"github.com/Anoromi/whatawhat-lib/internal/desktop"
	"github.com/Anoromi/whatawhat-lib/internal/models"
	"github.com/Anoromi/whatawhat-lib/internal/sink"
)

// Service owns the exported D-Bus object and the storage it feeds.
type Service struct {
	repo    *database.Repository
	conn    *dbus.Conn
	entries *desktop.Index
	cache   *cache.TTL[string, desktop.Info]
}

func NewService(cfg *config.Config, repo *database.Repository) *Service {
	return &Service{
		repo:    repo,
		entries: desktop.NewIndex(),
		cache: cache.New[string, desktop.Info](cache.Config{
			TTL:     cfg.Watcher.CacheTTL,
			MaxSize: cfg.Watcher.CacheMaxSize,
		}),
	}
}

// Start connects to the session bus, claims the well-known service name and
// exports the notification interface. It returns once the export is live;
// method calls are dispatched on godbus's own goroutines.
func (s *Service) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(sink.ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return fmt.Errorf("bus name %s is already taken", sink.ServiceName)
	}

	if err := conn.Export(notifyHandler{s}, dbus.ObjectPath(sink.ObjectPath), sink.InterfaceName); err != nil {
		conn.Close()
		return fmt.Errorf("failed to export notification interface: %w", err)
	}

	s.conn = conn
	log.Printf("Recorder listening on %s", sink.ServiceName)
	return nil
}

func (s *Service) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// notifyHandler is the exported object; godbus maps the NotifyActiveWindow
// member to the method of the same name.
type notifyHandler struct {
	svc *Service
}

func (h notifyHandler) NotifyActiveWindow(caption, resourceClass, resourceName string, pid int32) *dbus.Error {
	h.svc.record(caption, resourceClass, resourceName, pid)
	// The watcher side never awaits the reply; errors here would go nowhere.
	return nil
}

func (s *Service) record(caption, resourceClass, resourceName string, pid int32) {
	log.Printf("Active window class=%q name=%q caption=%q", resourceClass, resourceName, caption)

	event := &models.ActivityEvent{
		Timestamp:     time.Now(),
		Caption:       caption,
		ResourceClass: resourceClass,
		ResourceName:  resourceName,
	}
	if pid != sink.UnknownPID {
		event.PID = &pid
	}

	if info, ok := s.extraInfo(resourceName); ok {
		event.AppName = info.AppName
		event.ProcessPath = info.ProcessPath
	}

	if err := s.repo.Create(event); err != nil {
		log.Printf("Failed to store activity event: %v", err)
		s.storeError(err)
	}
}

// extraInfo resolves desktop-entry data for a resource name through the TTL
// cache. A miss in both the cache and the index is not an error, several
// backends report resource names with no matching desktop entry.
func (s *Service) extraInfo(resourceName string) (desktop.Info, bool) {
	if resourceName == "" {
		return desktop.Info{}, false
	}

	if info, ok := s.cache.Get(resourceName); ok {
		return info, true
	}

	info, ok := s.entries.Lookup(resourceName)
	if !ok {
		return desktop.Info{}, false
	}

	s.cache.Set(resourceName, info)
	return info, true
}

func (s *Service) storeError(err error) {
	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		ErrorMsg:  err.Error(),
	}
	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	}
}
