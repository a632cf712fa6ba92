package idle

import (
	"fmt"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"

	"nvpowermizerd/internal/logging"
)

// X11Provider reads idle time through the MIT-SCREEN-SAVER extension.
// The X connection is opened once and queried on every poll.
type X11Provider struct {
	conn   *xgb.Conn
	root   xproto.Drawable
	logger *logging.Logger
}

// NewX11Provider connects to the X display named by the environment and
// initializes the screensaver extension.
func NewX11Provider(logger *logging.Logger) (*X11Provider, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to open X display: %w", err)
	}

	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize screensaver extension: %w", err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	if screen == nil {
		conn.Close()
		return nil, fmt.Errorf("cannot get X11 default screen")
	}

	return &X11Provider{
		conn:   conn,
		root:   xproto.Drawable(screen.Root),
		logger: logger,
	}, nil
}

// Sample queries the server for the time since the last user input.
func (p *X11Provider) Sample() (time.Duration, error) {
	info, err := screensaver.QueryInfo(p.conn, p.root).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to query idle time: %w", err)
	}

	return time.Duration(info.MsSinceUserInput) * time.Millisecond, nil
}

// Close releases the X connection.
func (p *X11Provider) Close() error {
	p.conn.Close()

	if p.logger != nil {
		p.logger.Debug("idle.x11.closed", "X connection closed", nil)
	}
	return nil
}
