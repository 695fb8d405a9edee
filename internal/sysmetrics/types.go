// Package sysmetrics samples host CPU, memory, network, load and uptime.
package sysmetrics

import "time"

// Snapshot is one sample of the host. It is never mutated after Sample returns it.
type Snapshot struct {
	Time     time.Time
	Interval time.Duration // time covered by the network delta; 0 on the first sample
	Hostname string
	Uptime   time.Duration

	CPU    CPUStats
	Memory MemoryStats
	Net    NetStats
	Load   LoadStats
}

// CPUStats holds utilization percentages in [0, 100].
type CPUStats struct {
	Total   float64
	PerCore []float64
}

// MemoryStats holds physical memory usage.
type MemoryStats struct {
	UsedBytes  uint64
	TotalBytes uint64
}

// Percent returns used memory as a percentage of total.
func (m MemoryStats) Percent() float64 {
	if m.TotalBytes == 0 {
		return 0
	}
	return float64(m.UsedBytes) / float64(m.TotalBytes) * 100
}

// NetStats holds bytes moved across all interfaces since the previous sample.
type NetStats struct {
	RxBytes uint64
	TxBytes uint64
}

// LoadStats holds the 1/5/15 minute load averages.
// Available is false on platforms without load averages.
type LoadStats struct {
	Load1     float64
	Load5     float64
	Load15    float64
	Available bool
}

// RxRate returns received bytes per second over the sample interval.
func (s *Snapshot) RxRate() float64 {
	return rate(s.Net.RxBytes, s.Interval)
}

// TxRate returns transmitted bytes per second over the sample interval.
func (s *Snapshot) TxRate() float64 {
	return rate(s.Net.TxBytes, s.Interval)
}

func rate(bytes uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(bytes) / d.Seconds()
}
