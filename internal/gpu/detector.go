//go:build cuda

package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"nvpowermizerd/internal/logging"
)

// Detector enumerates GPUs through NVML so the daemon can log what it is
// driving and validate the configured GPU index at startup.
type Detector struct {
	nvml   NVMLInterface
	logger *logging.Logger
}

// NewDetector creates a new GPU detector
func NewDetector(logger *logging.Logger) *Detector {
	return &Detector{
		nvml:   NewRealNVML(),
		logger: logger,
	}
}

// NewDetectorWithNVML creates a detector with a custom NVML interface (for testing)
func NewDetectorWithNVML(nvmlInterface NVMLInterface, logger *logging.Logger) *Detector {
	return &Detector{
		nvml:   nvmlInterface,
		logger: logger,
	}
}

// Detect enumerates the installed GPUs. NVML failures are reported in the
// returned Report, never as a fatal error.
func (d *Detector) Detect() Report {
	report := Report{
		GPUs: make([]GPUInfo, 0),
	}

	ret := d.nvml.Init()
	if ret != nvml.SUCCESS {
		report.NVMLOk = false
		report.ErrorMessage = fmt.Sprintf("Failed to initialize NVML: %v", nvml.ErrorString(ret))
		d.logger.Warn("gpu.nvml.init.failed", "NVML initialization failed", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}
	defer d.nvml.Shutdown()

	report.NVMLOk = true

	driverVersion, ret := d.nvml.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		d.logger.Warn("gpu.driver.version.failed", "Failed to get driver version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	} else {
		report.DriverVersion = driverVersion
	}

	count, ret := d.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		report.ErrorMessage = fmt.Sprintf("Failed to get device count: %v", nvml.ErrorString(ret))
		d.logger.Error("gpu.device.count.failed", "Failed to get GPU count", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}

	for i := 0; i < count; i++ {
		device, ret := d.nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			d.logger.Warn("gpu.device.handle.failed", "Failed to get device handle", map[string]interface{}{
				"index": i,
				"error": nvml.ErrorString(ret),
			})
			continue
		}

		info := GPUInfo{
			Index: i,
		}

		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}

		if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
			info.UUID = uuid
		}

		if memInfo, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemoryMB = memInfo.Total / (1024 * 1024)
		}

		report.GPUs = append(report.GPUs, info)

		d.logger.Info("gpu.device.detected", "GPU device detected", map[string]interface{}{
			"index":     i,
			"name":      info.Name,
			"uuid":      info.UUID,
			"memory_mb": info.MemoryMB,
		})
	}

	return report
}
