package workers

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelUsage is one reading of a buffered channel.
type ChannelUsage struct {
	Name     string
	Capacity int
	Length   int
}

// ChannelCapacityWorker periodically reports the length of the event shards.
// Reading len(channel) and cap(channel) is non-blocking, so this won't
// interfere with the fan-out workers. A shard close to full means writers
// are about to wait in Notify.
type ChannelCapacityWorker struct {
	log                  *slog.Logger
	channels             []NamedChannel
	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewChannelCapacityWorker(log *slog.Logger,
	channels []NamedChannel,
	metricInterval time.Duration, lowCapacityThreshold int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log: log, channels: channels,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel capacity reports")
			return nil
		case <-ticker.C:
			for _, usage := range w.Sample() {
				w.report(usage)
			}
		}
	}
}

// Sample reads every channel once. Values that are not channels are skipped.
func (w *ChannelCapacityWorker) Sample() []ChannelUsage {
	usages := make([]ChannelUsage, 0, len(w.channels))
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		usages = append(usages, ChannelUsage{Name: nc.Name, Capacity: v.Cap(), Length: v.Len()})
	}
	return usages
}

// LowCapacity tells whether the free room of a buffered channel is at or
// below the threshold.
func (w *ChannelCapacityWorker) LowCapacity(usage ChannelUsage) bool {
	if usage.Capacity <= 0 {
		// In case of unbuffered channel
		return false
	}
	return usage.Capacity-usage.Length <= w.lowCapacityThreshold
}

func (w *ChannelCapacityWorker) report(usage ChannelUsage) {
	w.log.Debug(fmt.Sprintf("Channel %s usage: %d / %d", usage.Name, usage.Length, usage.Capacity))
	if w.LowCapacity(usage) {
		w.log.Warn("Channel capacity is low", "name", usage.Name, "capacity_left", usage.Capacity-usage.Length)
	}
}
