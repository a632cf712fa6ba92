package power

import "time"

// Config holds the controller tuning knobs. Values come from command-line
// flags and defaults only; there is no configuration file.
type Config struct {
	// GPUID selects which GPU the mode-switch commands target, as shown
	// by 'nvidia-settings -q gpus'.
	GPUID int

	// IdleThreshold is how long the session must be idle before the
	// controller drops to low power.
	IdleThreshold time.Duration

	// LowPowerPollInterval is the poll spacing while in low-power mode.
	// It is short so fresh user activity is picked up almost immediately.
	LowPowerPollInterval time.Duration

	// HighPowerPollInterval is the poll spacing while in high-power mode.
	// The only event being awaited is a long idle run, so polling is
	// infrequent to save CPU wake-ups. This is the common case.
	HighPowerPollInterval time.Duration
}

// DefaultConfig returns the controller defaults.
func DefaultConfig() Config {
	return Config{
		GPUID:                 0,
		IdleThreshold:         20 * time.Second,
		LowPowerPollInterval:  10 * time.Millisecond,
		HighPowerPollInterval: 5 * time.Second,
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration for values the controller cannot run
// with. An empty slice means the configuration is usable.
func (c Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.GPUID < 0 {
		errs = append(errs, ValidationError{Field: "gpuid", Message: "must not be negative"})
	}
	if c.IdleThreshold <= 0 {
		errs = append(errs, ValidationError{Field: "idle_threshold", Message: "must be positive"})
	}
	if c.LowPowerPollInterval <= 0 {
		errs = append(errs, ValidationError{Field: "low_power_poll_interval", Message: "must be positive"})
	}
	if c.HighPowerPollInterval <= 0 {
		errs = append(errs, ValidationError{Field: "high_power_poll_interval", Message: "must be positive"})
	}
	if len(errs) == 0 && c.LowPowerPollInterval > c.HighPowerPollInterval {
		errs = append(errs, ValidationError{Field: "low_power_poll_interval", Message: "must not exceed high_power_poll_interval"})
	}

	return errs
}
