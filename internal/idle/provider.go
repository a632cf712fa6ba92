// Package idle reads how long the desktop session has been without user
// input. Two sources are supported: the X11 MIT-SCREEN-SAVER extension
// (millisecond granularity) and the org.freedesktop.ScreenSaver D-Bus
// interface (second granularity) for sessions without a usable X display.
package idle

import (
	"fmt"
	"os"
	"time"

	"nvpowermizerd/internal/logging"
)

// Provider supplies the session idle duration from the host environment.
// The underlying connection is held open for the lifetime of the daemon
// and must be released with Close.
type Provider interface {
	// Sample returns the time since the last user input event.
	Sample() (time.Duration, error)

	// Close releases the session handle.
	Close() error
}

// Open acquires an idle-time source for the current session.
// The X11 screensaver extension is preferred when a display is available;
// otherwise the freedesktop ScreenSaver D-Bus interface is tried.
func Open(logger *logging.Logger) (Provider, error) {
	if display := os.Getenv("DISPLAY"); display != "" {
		provider, err := NewX11Provider(logger)
		if err == nil {
			logger.Info("idle.source.opened", "Using X11 screensaver extension for idle time", map[string]interface{}{
				"display": display,
			})
			return provider, nil
		}
		logger.Warn("idle.x11.unavailable", "X11 idle source unavailable, trying D-Bus", map[string]interface{}{
			"error": err.Error(),
		})
	}

	provider, err := NewDBusProvider(logger)
	if err != nil {
		return nil, fmt.Errorf("no usable idle-time source: %w", err)
	}

	logger.Info("idle.source.opened", "Using org.freedesktop.ScreenSaver for idle time", nil)
	return provider, nil
}
