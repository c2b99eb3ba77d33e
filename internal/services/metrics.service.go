package services

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"vehicledash/internal/models"
)

const MB = 1024 * 1024

// HostSampler reads the simulator's own resource footprint
type HostSampler struct {
	logger *zap.Logger
	proc   *process.Process
}

func NewHostSampler(logger *zap.Logger) (*HostSampler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open own process: %w", err)
	}
	return &HostSampler{logger: logger.Named("host"), proc: proc}, nil
}

// Sample collects process and system usage. Partial failures are logged and
// leave the corresponding field zero.
func (h *HostSampler) Sample() (*models.HostStatus, error) {
	status := &models.HostStatus{
		PID:        h.proc.Pid,
		Goroutines: runtime.NumGoroutine(),
	}

	memInfo, err := h.proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get process memory: %w", err)
	}
	status.RSSMB = float64(memInfo.RSS) / MB

	if pct, err := h.proc.CPUPercent(); err != nil {
		h.logger.Warn("could not get process cpu", zap.Error(err))
	} else {
		status.CPUPercent = pct
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		h.logger.Warn("could not get system memory", zap.Error(err))
	} else {
		status.SystemMemUsed = vm.UsedPercent
	}

	if pct, err := cpu.Percent(0, false); err != nil || len(pct) == 0 {
		h.logger.Warn("could not get system cpu", zap.Error(err))
	} else {
		status.SystemCPU = pct[0]
	}

	return status, nil
}
