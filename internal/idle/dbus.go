package idle

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"nvpowermizerd/internal/logging"
)

const (
	screenSaverService = "org.freedesktop.ScreenSaver"
	screenSaverPath    = "/org/freedesktop/ScreenSaver"
	idleTimeMethod     = "org.freedesktop.ScreenSaver.GetSessionIdleTime"
)

// DBusProvider reads idle time from the session's freedesktop ScreenSaver
// service. Granularity is one second, which is coarse but sufficient for a
// threshold measured in tens of seconds.
type DBusProvider struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	logger *logging.Logger
}

// NewDBusProvider connects to the session bus and probes the ScreenSaver
// interface once, so a session that does not implement it fails at open
// time rather than mid-run.
func NewDBusProvider(logger *logging.Logger) (*DBusProvider, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	provider := &DBusProvider{
		conn:   conn,
		obj:    conn.Object(screenSaverService, screenSaverPath),
		logger: logger,
	}

	if _, err := provider.Sample(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("screensaver interface probe failed: %w", err)
	}

	return provider, nil
}

// Sample asks the screensaver service for the session idle time.
func (p *DBusProvider) Sample() (time.Duration, error) {
	var seconds uint32
	if err := p.obj.Call(idleTimeMethod, 0).Store(&seconds); err != nil {
		return 0, fmt.Errorf("failed to query idle time: %w", err)
	}

	return time.Duration(seconds) * time.Second, nil
}

// Close releases the session bus connection.
func (p *DBusProvider) Close() error {
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("failed to close session bus: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("idle.dbus.closed", "Session bus connection closed", nil)
	}
	return nil
}
