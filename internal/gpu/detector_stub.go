//go:build !cuda

package gpu

import "nvpowermizerd/internal/logging"

// Detector provides a no-op GPU detector when NVML is unavailable.
type Detector struct {
	logger *logging.Logger
}

// NewDetector creates a GPU detector that skips NVML when CUDA support is disabled.
func NewDetector(logger *logging.Logger) *Detector {
	return &Detector{logger: logger}
}

// NewDetectorWithNVML is provided for API compatibility; NVML is ignored when CUDA is disabled.
func NewDetectorWithNVML(_ NVMLInterface, logger *logging.Logger) *Detector {
	return NewDetector(logger)
}

// Detect returns a report indicating that NVML is unavailable in the current build.
func (d *Detector) Detect() Report {
	if d.logger != nil {
		d.logger.Info("gpu.detect.disabled", "Skipping NVML detection (built without cuda tag)", nil)
	}

	return Report{
		GPUs:         []GPUInfo{},
		NVMLOk:       false,
		ErrorMessage: "NVML disabled: rebuild with -tags cuda",
	}
}
