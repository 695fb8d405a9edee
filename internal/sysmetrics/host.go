package sysmetrics

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// host is the slice of gopsutil the sampler reads from.
type host interface {
	CPUPercent(ctx context.Context, perCore bool) ([]float64, error)
	Memory(ctx context.Context) (used, total uint64, err error)
	NetCounters(ctx context.Context) (rx, tx uint64, err error)
	LoadAvg(ctx context.Context) (*load.AvgStat, error)
	Uptime(ctx context.Context) (uint64, error)
	Hostname(ctx context.Context) (string, error)
}

type gopsutilHost struct{}

// CPUPercent uses a zero interval, so gopsutil compares against its previous
// call instead of sleeping.
func (gopsutilHost) CPUPercent(ctx context.Context, perCore bool) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, perCore)
}

func (gopsutilHost) Memory(ctx context.Context) (uint64, uint64, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	return v.Used, v.Total, nil
}

func (gopsutilHost) NetCounters(ctx context.Context) (uint64, uint64, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, 0, err
	}
	if len(counters) == 0 {
		return 0, 0, nil
	}
	return counters[0].BytesRecv, counters[0].BytesSent, nil
}

func (gopsutilHost) LoadAvg(ctx context.Context) (*load.AvgStat, error) {
	return load.AvgWithContext(ctx)
}

func (gopsutilHost) Uptime(ctx context.Context) (uint64, error) {
	return host.UptimeWithContext(ctx)
}

func (gopsutilHost) Hostname(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	return info.Hostname, nil
}
