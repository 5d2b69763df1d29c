package metrics

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceUsage is a point-in-time view of the gateway process and its host.
// Host fields stay zero when the platform does not expose them.
type ResourceUsage struct {
	AllocMB              int64   `json:"alloc_mb"`
	SysMB                int64   `json:"sys_mb"`
	Goroutines           int     `json:"goroutines"`
	GCCount              int64   `json:"gc_count"`
	SystemMemUsedMB      int64   `json:"system_mem_used_mb"`
	SystemMemTotalMB     int64   `json:"system_mem_total_mb"`
	SystemMemUsedPercent float64 `json:"system_mem_used_percent"`
	CPUUsagePercent      float64 `json:"cpu_usage_percent"`
}

// Resources samples the Go runtime and the host. CPU usage is measured since
// the previous call, so the first sample after startup reports the usage
// since boot.
func Resources() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedMB = int64(vm.Used / 1024 / 1024)
		usage.SystemMemTotalMB = int64(vm.Total / 1024 / 1024)
		usage.SystemMemUsedPercent = vm.UsedPercent
	}

	// zero interval never blocks the metrics request
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		usage.CPUUsagePercent = percents[0]
	}

	return usage
}
