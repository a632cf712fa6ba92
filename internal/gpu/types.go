package gpu

// GPUInfo describes a single detected GPU.
type GPUInfo struct {
	Index    int
	Name     string
	UUID     string
	MemoryMB uint64
}

// Report is the result of startup GPU detection. NVMLOk false means the
// NVML library could not be used; the daemon still runs, it just cannot
// validate the target GPU index.
type Report struct {
	DriverVersion string
	NVMLOk        bool
	GPUs          []GPUInfo
	ErrorMessage  string
}

// Describe returns the detected GPU with the given index.
func (r Report) Describe(index int) (GPUInfo, bool) {
	for _, info := range r.GPUs {
		if info.Index == index {
			return info, true
		}
	}
	return GPUInfo{}, false
}
