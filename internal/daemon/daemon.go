// Package daemon owns process-level wiring: building the controller from
// configuration, installing signal handlers, and translating a delivered
// signal into a deterministic shutdown of the poll loop.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nvpowermizerd/internal/gpu"
	"nvpowermizerd/internal/idle"
	"nvpowermizerd/internal/logging"
	"nvpowermizerd/internal/power"
)

// Daemon ties the idle-time source, the mode-switch invoker, and the
// hysteresis controller together for one run of the process.
type Daemon struct {
	logger   *logging.Logger
	cfg      power.Config
	provider idle.Provider
	ctrl     *power.Controller
}

// New builds a ready-to-run daemon. Failure to acquire an idle-time
// source is fatal; NVML problems are not.
func New(cfg power.Config, logger *logging.Logger) (*Daemon, error) {
	provider, err := idle.Open(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open idle-time source: %w", err)
	}

	invoker := power.NewShellInvoker(cfg.GPUID, logger)
	lowCmd, highCmd := invoker.Commands()
	logger.Debug("daemon.commands.prepared", "Mode switch commands prepared", map[string]interface{}{
		"low_power_cmd":  lowCmd,
		"high_power_cmd": highCmd,
	})

	d := assemble(cfg, provider, invoker, logger)
	d.describeTarget()
	return d, nil
}

// assemble wires a daemon from explicit collaborators. Split out so tests
// can inject fakes for the idle source and the invoker.
func assemble(cfg power.Config, provider idle.Provider, invoker power.Invoker, logger *logging.Logger) *Daemon {
	return &Daemon{
		logger:   logger,
		cfg:      cfg,
		provider: provider,
		ctrl:     power.NewController(cfg, provider, invoker, logger),
	}
}

// describeTarget enumerates GPUs through NVML and reports whether the
// configured index is among them. Detection failure only costs the log
// line; the mode-switch commands work regardless.
func (d *Daemon) describeTarget() {
	report := gpu.NewDetector(d.logger).Detect()
	if !report.NVMLOk {
		d.logger.Debug("daemon.gpu.validation.skipped", "NVML unavailable, cannot validate GPU index", map[string]interface{}{
			"reason": report.ErrorMessage,
		})
		return
	}

	if info, ok := report.Describe(d.cfg.GPUID); ok {
		d.logger.Info("daemon.gpu.target", "Driving GPU power mode", map[string]interface{}{
			"gpu_id":         d.cfg.GPUID,
			"name":           info.Name,
			"driver_version": report.DriverVersion,
		})
		return
	}

	d.logger.Warn("daemon.gpu.target.unknown", "Configured GPU index was not detected", map[string]interface{}{
		"gpu_id":   d.cfg.GPUID,
		"detected": len(report.GPUs),
	})
}

// Run executes the poll loop until a termination signal arrives or the
// idle source fails. The session handle is released on the way out in
// either case. A nil return means a clean, signal-triggered shutdown.
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// The handler only requests cancellation; the final transition to
	// low power runs on the poll goroutine, so it cannot interleave with
	// an in-flight switch.
	go func() {
		select {
		case sig := <-sigChan:
			d.logger.Info("daemon.signal_received", "Received signal, shutting down", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-ctx.Done():
		}
	}()

	err := d.ctrl.Run(ctx)

	if closeErr := d.provider.Close(); closeErr != nil {
		d.logger.Warn("daemon.provider.close_failed", "Failed to release idle-time source", map[string]interface{}{
			"error": closeErr.Error(),
		})
	}

	return err
}
