package power

import (
	"fmt"
	"os/exec"
	"strings"

	"nvpowermizerd/internal/logging"
)

// Command templates for switching PowerMizer modes. The GPU index is baked
// in once at startup.
const (
	lowPowerCmdFmt  = "nvidia-settings -a [gpu:%d]/GPUPowerMizerMode=0"
	highPowerCmdFmt = "nvidia-settings -a [gpu:%d]/GPUPowerMizerMode=1"
)

// Invoker carries out a power mode switch and reports the exit status of
// whatever action was run. The controller logs the status but never
// branches on it.
type Invoker interface {
	Invoke(mode Mode) (int, error)
}

// ShellInvoker switches modes by running nvidia-settings through the host
// shell, mirroring what a user would type by hand.
type ShellInvoker struct {
	lowPowerCmd  string
	highPowerCmd string
	logger       *logging.Logger
}

// NewShellInvoker builds the two command strings for the given GPU.
func NewShellInvoker(gpuID int, logger *logging.Logger) *ShellInvoker {
	return &ShellInvoker{
		lowPowerCmd:  fmt.Sprintf(lowPowerCmdFmt, gpuID),
		highPowerCmd: fmt.Sprintf(highPowerCmdFmt, gpuID),
		logger:       logger,
	}
}

// Commands returns the low-power and high-power command strings.
func (s *ShellInvoker) Commands() (string, string) {
	return s.lowPowerCmd, s.highPowerCmd
}

// Invoke runs the command for the requested mode and returns its exit
// status. A status of -1 with a non-nil error means the command could not
// be started at all.
func (s *ShellInvoker) Invoke(mode Mode) (int, error) {
	cmdStr := s.lowPowerCmd
	if mode == ModeHighPower {
		cmdStr = s.highPowerCmd
	}

	cmd := exec.Command("sh", "-c", cmdStr)
	output, err := cmd.CombinedOutput()

	status := -1
	if cmd.ProcessState != nil {
		status = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return status, fmt.Errorf("failed to run %q: %w", cmdStr, err)
		}
	}

	s.logger.Debug("power.command.finished", "Mode switch command finished", map[string]interface{}{
		"command": cmdStr,
		"status":  status,
		"output":  strings.TrimSpace(string(output)),
	})

	return status, nil
}
