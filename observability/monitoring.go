package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ChannelUsage is the last sampled length of an internal channel.
type ChannelUsage struct {
	Name      string `json:"name"`
	Length    int    `json:"length"`
	Capacity  int    `json:"capacity"`
	SampledAt string `json:"sampled_at"`
}

// MonitoringStats aggregates the routing counters of the host
type MonitoringStats struct {
	Registered         uint64         `json:"registered"`
	HandshakesRejected uint64         `json:"handshakes_rejected"`
	Forwarded          uint64         `json:"forwarded"`
	Rejected           uint64         `json:"rejected"`
	DeliveryFailed     uint64         `json:"delivery_failed"`
	WorkerRestarts     uint64         `json:"worker_restarts"`
	AllocMemMb         uint64         `json:"alloc_mem_mb"`
	NumGC              uint32         `json:"num_gc"`
	Channels           []ChannelUsage `json:"channels"`
	Uptime             string         `json:"uptime"`
}

// MonitoringManager collects counters fed by the telemetry handlers.
type MonitoringManager struct {
	log       *slog.Logger
	startedAt time.Time

	registered         atomic.Uint64
	handshakesRejected atomic.Uint64
	forwarded          atomic.Uint64
	rejected           atomic.Uint64
	deliveryFailed     atomic.Uint64
	workerRestarts     atomic.Uint64

	mu       sync.RWMutex
	channels map[string]ChannelUsage
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{
		log:       log,
		startedAt: time.Now(),
		channels:  make(map[string]ChannelUsage),
	}
}

func (mm *MonitoringManager) IncrRegistered()         { mm.registered.Add(1) }
func (mm *MonitoringManager) IncrHandshakesRejected() { mm.handshakesRejected.Add(1) }
func (mm *MonitoringManager) IncrForwarded()          { mm.forwarded.Add(1) }
func (mm *MonitoringManager) IncrRejected()           { mm.rejected.Add(1) }
func (mm *MonitoringManager) IncrDeliveryFailed()     { mm.deliveryFailed.Add(1) }
func (mm *MonitoringManager) IncrWorkerRestarts()     { mm.workerRestarts.Add(1) }

// UpdateChannel records the latest sample for a named channel.
func (mm *MonitoringManager) UpdateChannel(name string, length, capacity int) {
	mm.log.Debug("Channel sampled", "name", name, "length", length, "capacity", capacity)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.channels[name] = ChannelUsage{
		Name:      name,
		Length:    length,
		Capacity:  capacity,
		SampledAt: time.Now().Format(time.TimeOnly),
	}
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.RLock()
	channels := make([]ChannelUsage, 0, len(mm.channels))
	for _, usage := range mm.channels {
		channels = append(channels, usage)
	}
	mm.mu.RUnlock()

	return MonitoringStats{
		Registered:         mm.registered.Load(),
		HandshakesRejected: mm.handshakesRejected.Load(),
		Forwarded:          mm.forwarded.Load(),
		Rejected:           mm.rejected.Load(),
		DeliveryFailed:     mm.deliveryFailed.Load(),
		WorkerRestarts:     mm.workerRestarts.Load(),
		AllocMemMb:         m.Alloc / 1024 / 1024,
		NumGC:              m.NumGC,
		Channels:           channels,
		Uptime:             time.Since(mm.startedAt).Round(time.Second).String(),
	}
}
