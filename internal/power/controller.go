package power

import (
	"context"
	"fmt"
	"time"

	"nvpowermizerd/internal/idle"
	"nvpowermizerd/internal/logging"
)

// Controller keeps the GPU power mode in sync with session idleness using
// a two-state hysteresis policy: drop to low power once the session has
// been idle past the threshold, return to high power on the first sign of
// activity. All state is owned by the single goroutine running the poll
// loop; the shutdown path runs on that same goroutine, so a final switch
// can never interleave with an in-flight one.
type Controller struct {
	cfg      Config
	provider idle.Provider
	invoker  Invoker
	logger   *logging.Logger
	mode     Mode
}

// NewController creates a controller starting in low-power mode, matching
// the profile the GPU is left in whenever the daemon is not running.
func NewController(cfg Config, provider idle.Provider, invoker Invoker, logger *logging.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		provider: provider,
		invoker:  invoker,
		logger:   logger,
		mode:     ModeLowPower,
	}
}

// Mode returns the mode of the last attempted switch.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Step performs one poll iteration: sample the idle time, switch modes if
// the threshold was crossed, and return how long to wait before the next
// poll. A sampling error is fatal; no meaningful power decision can be
// made without ground truth.
func (c *Controller) Step() (time.Duration, error) {
	idleFor, err := c.provider.Sample()
	if err != nil {
		return 0, fmt.Errorf("failed to sample idle time: %w", err)
	}

	c.logger.Debug("power.poll", "Sampled session idle time", map[string]interface{}{
		"idle_ms": idleFor.Milliseconds(),
		"mode":    c.mode.String(),
	})

	if c.mode == ModeLowPower {
		if idleFor < c.cfg.IdleThreshold {
			c.switchTo(ModeHighPower)

			// The session just became active, so the threshold cannot
			// lapse before roughly threshold-idle from now. Sleeping
			// until then saves wake-ups; the wake still re-polls before
			// any decision is made.
			wait := c.cfg.IdleThreshold - idleFor + time.Millisecond
			if wait <= 0 {
				wait = c.cfg.LowPowerPollInterval
			}
			return wait, nil
		}
		return c.cfg.LowPowerPollInterval, nil
	}

	if idleFor >= c.cfg.IdleThreshold {
		c.switchTo(ModeLowPower)
	}
	return c.cfg.HighPowerPollInterval, nil
}

// Run polls until the context is cancelled, then performs the shutdown
// transition. It returns nil on a clean shutdown and the sampling error
// when the idle source fails mid-run.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("power.controller.started", "Idle-power controller started", map[string]interface{}{
		"gpu_id":       c.cfg.GPUID,
		"threshold_ms": c.cfg.IdleThreshold.Milliseconds(),
	})

	for {
		select {
		case <-ctx.Done():
			c.Shutdown()
			return nil
		default:
		}

		delay, err := c.Step()
		if err != nil {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.Shutdown()
			return nil
		case <-timer.C:
		}
	}
}

// Shutdown forces a final transition to low power so the GPU is left in
// the power-saving profile. The switch is issued even when the controller
// already believes it is in low power, matching the behavior users rely
// on when the previous command silently failed.
func (c *Controller) Shutdown() {
	c.switchTo(ModeLowPower)
	c.logger.Info("power.controller.stopped", "Idle-power controller stopped", nil)
}

// switchTo invokes the external mode-switch action and updates the
// controller state. The update is optimistic: the reported exit status is
// logged but never rolls the transition back.
func (c *Controller) switchTo(mode Mode) {
	status, err := c.invoker.Invoke(mode)
	if err != nil {
		c.logger.Debug("power.command.failed", "Mode switch command could not be run", map[string]interface{}{
			"mode":  mode.String(),
			"error": err.Error(),
		})
	}

	c.mode = mode

	interval := c.cfg.LowPowerPollInterval
	watching := "activity"
	if mode == ModeHighPower {
		interval = c.cfg.HighPowerPollInterval
		watching = "idle"
	}

	c.logger.Info("power.switch", fmt.Sprintf("Switched to %s - polling for %s every %s", mode, watching, interval), map[string]interface{}{
		"mode":             mode.String(),
		"command_status":   status,
		"poll_interval_ms": interval.Milliseconds(),
	})
}
