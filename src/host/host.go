package host

import (
	"context"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"os"
	"time"
)

const mb = 1024 * 1024

// Usage samples the current process and host memory. It does not block on
// CPU sampling, the CPU figure covers the process lifetime.
func Usage(ctx context.Context) (*ProcUsage, error) {
	pid := int32(os.Getpid())
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, err
	}
	rss, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	appCPU, err := proc.CPUPercentWithContext(ctx)
	if err != nil {
		return nil, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return &ProcUsage{
		PID:        pid,
		AppCpu:     appCPU,
		AppMem:     float64(rss.RSS) / mb,
		AppVMem:    float64(rss.VMS) / mb,
		Mem:        float64(vm.Used) / mb,
		TotalMem:   float64(vm.Total) / mb,
		MemPercent: vm.UsedPercent,
		At:         time.Now().Unix(),
	}, nil
}
