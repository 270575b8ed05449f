package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"chat-relay/contract"

	"github.com/shirou/gopsutil/process"
)

// HealthMonitor periodically logs the relay's vital signs: session and
// queue gauges plus the process's own CPU and memory usage.
type HealthMonitor struct {
	log      *slog.Logger
	registry contract.SessionRegistry
	queue    contract.EventQueue
	interval time.Duration
}

func NewHealthMonitor(log *slog.Logger, registry contract.SessionRegistry,
	queue contract.EventQueue, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{log: log, registry: registry, queue: queue, interval: interval}
}

func (w *HealthMonitor) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // PID fits int32 on supported platforms
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitor")
			return nil
		case <-ticker.C:
			cpu, ram := selfStats(p)
			w.log.Info("Relay health",
				"sessions", w.registry.CountSessions(),
				"active", w.registry.CountActive(),
				"queued_events", w.queue.Len(),
				"cpu_percent", cpu,
				"rss_bytes", ram)
		}
	}
}

// selfStats tolerates partial failures: a metric that cannot be read is
// reported as zero rather than aborting the monitor.
func selfStats(p *process.Process) (float64, uint64) {
	var ram uint64
	if memInfo, err := p.MemoryInfo(); err == nil {
		ram = memInfo.RSS
	}
	cpu, _ := p.CPUPercent()
	return cpu, ram
}
