package power

import (
	"strings"
	"testing"

	"nvpowermizerd/internal/logging"
)

func TestNewShellInvoker_CommandStrings(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)

	tests := []struct {
		name  string
		gpuID int
		want  string
	}{
		{"default gpu", 0, "[gpu:0]"},
		{"second gpu", 1, "[gpu:1]"},
		{"large index", 7, "[gpu:7]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := NewShellInvoker(tt.gpuID, logger)
			low, high := invoker.Commands()

			if !strings.Contains(low, tt.want) {
				t.Errorf("Low-power command %q does not reference %s", low, tt.want)
			}
			if !strings.Contains(high, tt.want) {
				t.Errorf("High-power command %q does not reference %s", high, tt.want)
			}
			if !strings.Contains(low, "GPUPowerMizerMode=0") {
				t.Errorf("Low-power command %q should set PowerMizerMode=0", low)
			}
			if !strings.Contains(high, "GPUPowerMizerMode=1") {
				t.Errorf("High-power command %q should set PowerMizerMode=1", high)
			}
		})
	}
}

func TestShellInvoker_Invoke_ExitStatus(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)

	// Substitute harmless shell commands for nvidia-settings so the exit
	// status propagation can be observed.
	invoker := &ShellInvoker{
		lowPowerCmd:  "exit 0",
		highPowerCmd: "exit 3",
		logger:       logger,
	}

	status, err := invoker.Invoke(ModeLowPower)
	if err != nil {
		t.Fatalf("Invoke(low) returned error: %v", err)
	}
	if status != 0 {
		t.Errorf("Expected status 0, got %d", status)
	}

	status, err = invoker.Invoke(ModeHighPower)
	if err != nil {
		t.Fatalf("Invoke(high) returned error: %v", err)
	}
	if status != 3 {
		t.Errorf("Expected status 3, got %d", status)
	}
}

func TestShellInvoker_Invoke_CapturesOutput(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)

	invoker := &ShellInvoker{
		lowPowerCmd:  "echo switched",
		highPowerCmd: "echo switched",
		logger:       logger,
	}

	// Output goes to the debug log only; Invoke must not fail because the
	// command printed something.
	if _, err := invoker.Invoke(ModeLowPower); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
}
