package sink

import (
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// The well-known triple is fixed at build time; it is not user-configurable.
const (
	ServiceName   = "com.github.anoromi.whatawhat_lib"
	ObjectPath    = "/com/github/anoromi/whatawhat_lib"
	InterfaceName = "com.github.anoromi.whatawhat_lib"
	MethodName    = InterfaceName + ".NotifyActiveWindow"
)

// UnknownPID is sent on the wire when the descriptor carried no pid. The
// NotifyActiveWindow signature has no option type, so absence needs an
// in-band marker; valid pids are never negative.
const UnknownPID int32 = -1

// ErrDeliveryFailed wraps any transport-level failure from the session bus.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// DBus delivers canonical events as NotifyActiveWindow method calls on the
// session bus. It does not care whether a consumer is listening; no-listener
// errors are reported like any other delivery failure and the caller decides
// whether they matter.
type DBus struct {
	conn *dbus.Conn
}

// NewDBus connects to the session bus.
func NewDBus() (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to session bus")
	}
	return &DBus{conn: conn}, nil
}

// Deliver serializes ev and hands it to the bus. The call does not wait for a
// reply; the filtering logic never awaits an acknowledgement.
func (s *DBus) Deliver(ev window.CanonicalEvent) error {
	caption, class, name, pid := MethodArgs(ev)

	obj := s.conn.Object(ServiceName, dbus.ObjectPath(ObjectPath))
	call := obj.Call(MethodName, dbus.FlagNoReplyExpected, caption, class, name, pid)
	if call.Err != nil {
		return errors.Wrapf(ErrDeliveryFailed, "%v", call.Err)
	}
	return nil
}

func (s *DBus) Close() error {
	return s.conn.Close()
}

// MethodArgs maps a canonical event onto the NotifyActiveWindow(s,s,s,i)
// signature. Kept separate from Deliver so the mapping is testable without a
// bus.
func MethodArgs(ev window.CanonicalEvent) (caption, resourceClass, resourceName string, pid int32) {
	pid = UnknownPID
	if ev.PID != nil {
		pid = *ev.PID
	}
	return ev.Caption, ev.ResourceClass, ev.ResourceName, pid
}
