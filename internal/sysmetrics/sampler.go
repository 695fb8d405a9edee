package sysmetrics

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/logger"
)

// Sampler produces Snapshots. The only state it keeps between calls is the
// previous network counters and the hostname.
type Sampler struct {
	host host
	now  func() time.Time
	log  logger.Logger

	mu       sync.Mutex
	prevRx   uint64
	prevTx   uint64
	prevTime time.Time
	hostname string
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger sets the logger for non-fatal sampling problems.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) { s.log = l }
}

// NewSampler creates a Sampler backed by gopsutil.
func NewSampler(opts ...Option) *Sampler {
	s := &Sampler{host: gopsutilHost{}, now: time.Now, log: logger.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample reads every metric. CPU and memory failures are fatal for the sample;
// missing load averages or uptime only blank those fields.
func (s *Sampler) Sample(ctx context.Context) (*Snapshot, error) {
	var (
		total    []float64
		perCore  []float64
		used     uint64
		memTotal uint64
		rx, tx   uint64
		netErr   error
		loadAvg  LoadStats
		uptime   uint64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if total, err = s.host.CPUPercent(gctx, false); err != nil {
			return errors.WrapWithCode(err, errors.ErrSample,
				"Couldn't read CPU usage", "")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if perCore, err = s.host.CPUPercent(gctx, true); err != nil {
			return errors.WrapWithCode(err, errors.ErrSample,
				"Couldn't read per-core CPU usage", "")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if used, memTotal, err = s.host.Memory(gctx); err != nil {
			return errors.WrapWithCode(err, errors.ErrSample,
				"Couldn't read memory usage", "")
		}
		return nil
	})
	g.Go(func() error {
		rx, tx, netErr = s.host.NetCounters(gctx)
		return nil
	})
	g.Go(func() error {
		avg, err := s.host.LoadAvg(gctx)
		if err == nil && avg != nil {
			loadAvg = LoadStats{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15, Available: true}
		}
		return nil
	})
	g.Go(func() error {
		uptime, _ = s.host.Uptime(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	snap := &Snapshot{
		Time:     now,
		Hostname: s.lookupHostname(ctx),
		Uptime:   time.Duration(uptime) * time.Second,
		CPU:      CPUStats{PerCore: perCore},
		Memory:   MemoryStats{UsedBytes: used, TotalBytes: memTotal},
		Load:     loadAvg,
	}
	if len(total) > 0 {
		snap.CPU.Total = total[0]
	}

	if netErr != nil {
		s.log.Warn("network counters unavailable: %v", netErr)
	} else {
		snap.Net, snap.Interval = s.netDelta(rx, tx, now)
	}

	return snap, nil
}

// netDelta returns bytes moved since the previous sample. A counter that went
// backwards (interface reset, wrap) reports zero for that sample.
func (s *Sampler) netDelta(rx, tx uint64, now time.Time) (NetStats, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := s.prevTime.IsZero()
	var stats NetStats
	var interval time.Duration
	if !first {
		stats.RxBytes = delta(rx, s.prevRx)
		stats.TxBytes = delta(tx, s.prevTx)
		interval = now.Sub(s.prevTime)
	}

	s.prevRx, s.prevTx, s.prevTime = rx, tx, now
	return stats, interval
}

func delta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func (s *Sampler) lookupHostname(ctx context.Context) string {
	s.mu.Lock()
	name := s.hostname
	s.mu.Unlock()
	if name != "" {
		return name
	}

	name, err := s.host.Hostname(ctx)
	if err != nil {
		s.log.Debug("hostname unavailable: %v", err)
		return ""
	}

	s.mu.Lock()
	s.hostname = name
	s.mu.Unlock()
	return name
}
