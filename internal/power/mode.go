package power

// Mode identifies which PowerMizer profile the daemon believes is active.
// It reflects the last switch that was attempted, not hardware ground
// truth: a silently failing nvidia-settings invocation leaves the two out
// of sync until the next transition.
type Mode int

const (
	// ModeLowPower is the adaptive power-saving profile (PowerMizerMode=0).
	ModeLowPower Mode = iota
	// ModeHighPower is the maximum-performance profile (PowerMizerMode=1).
	ModeHighPower
)

// String returns the human-readable mode name used in log lines.
func (m Mode) String() string {
	switch m {
	case ModeLowPower:
		return "low-power"
	case ModeHighPower:
		return "high-power"
	default:
		return "unknown"
	}
}
