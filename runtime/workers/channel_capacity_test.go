package workers

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	busy := make(chan int, 4)
	busy <- 1
	busy <- 2
	busy <- 3
	idle := make(chan string, 4)

	w := NewChannelCapacityWorker(slog.Default(), []NamedChannel{
		{Name: "shard-0", Channel: busy},
		{Name: "shard-1", Channel: idle},
		{Name: "not-a-channel", Channel: 42},
	}, time.Second, 1)

	usages := w.Sample()
	req.Equal([]ChannelUsage{
		{Name: "shard-0", Capacity: 4, Length: 3},
		{Name: "shard-1", Capacity: 4, Length: 0},
	}, usages)
	req.True(w.LowCapacity(usages[0]))
	req.False(w.LowCapacity(usages[1]))
	req.False(w.LowCapacity(ChannelUsage{Name: "unbuffered"}))
}
