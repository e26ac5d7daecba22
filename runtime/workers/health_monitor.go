package workers

import (
	"context"
	"log/slog"
	"os"
	"teamchat/contract"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Health is one sample of the server process.
type Health struct {
	CPUPercent    float64
	RSS           uint64
	Subscriptions int
}

// HealthMonitor logs CPU, resident memory and live subscription count.
type HealthMonitor struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
}

func NewHealthMonitor(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{log: log, registry: registry, interval: interval}
}

func (w *HealthMonitor) Run(ctx context.Context) error {
	p, err := currentProcess()
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
			health, err := w.Sample(p)
			if err != nil {
				w.log.Error("Error while sampling process", "error", err)
				continue
			}
			w.log.Info("Health",
				"cpu_percent", health.CPUPercent,
				"rss_bytes", health.RSS,
				"subscriptions", health.Subscriptions)
		}
	}
}

func (w *HealthMonitor) Sample(p *process.Process) (Health, error) {
	cpu, err := p.CPUPercent()
	if err != nil {
		return Health{}, err
	}
	memory, err := p.MemoryInfo()
	if err != nil {
		return Health{}, err
	}
	return Health{CPUPercent: cpu, RSS: memory.RSS, Subscriptions: w.registry.Count()}, nil
}

func currentProcess() (*process.Process, error) {
	return process.NewProcess(int32(os.Getpid()))
}
