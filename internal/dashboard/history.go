package dashboard

import (
	"time"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/sysmetrics"
)

// DefaultHistorySize is the default number of samples kept per series.
const DefaultHistorySize = 60

// History keeps rolling CPU, RAM and network series for the System tab sparklines.
// It is owned by the Update loop and needs no locking.
type History struct {
	size int
	cpu  *ringBuffer
	ram  *ringBuffer
	rx   *ringBuffer
	tx   *ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with the given capacity per series.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size: size,
		cpu:  newRingBuffer(size),
		ram:  newRingBuffer(size),
		rx:   newRingBuffer(size),
		tx:   newRingBuffer(size),
	}
}

// Push appends one snapshot to every series.
func (h *History) Push(s *sysmetrics.Snapshot) {
	if s == nil {
		return
	}
	h.cpu.push(s.CPU.Total)
	h.ram.push(s.Memory.Percent())
	// The first sample has no interval and would plot a false zero.
	if s.Interval > 0 {
		h.rx.push(s.RxRate())
		h.tx.push(s.TxRate())
	}
}

// CPU returns up to count CPU percentages, oldest first.
func (h *History) CPU(count int) []float64 { return h.cpu.getLast(count) }

// RAM returns up to count memory percentages, oldest first.
func (h *History) RAM(count int) []float64 { return h.ram.getLast(count) }

// Rx returns up to count receive rates in bytes/s, oldest first.
func (h *History) Rx(count int) []float64 { return h.rx.getLast(count) }

// Tx returns up to count transmit rates in bytes/s, oldest first.
func (h *History) Tx(count int) []float64 { return h.tx.getLast(count) }

// Len returns the number of CPU samples held.
func (h *History) Len() int { return h.cpu.count }

// ContainerHistory keeps CPU, memory and network series per container for
// the Docker detail pane. Like History it belongs to the Update loop.
type ContainerHistory struct {
	size   int
	series map[string]*containerSeries
}

type containerSeries struct {
	cpu *ringBuffer
	mem *ringBuffer
	// net holds combined rx+tx in bytes/s.
	net     *ringBuffer
	lastNet uint64
	lastAt  time.Time
}

// NewContainerHistory creates a history with the given capacity per series.
func NewContainerHistory(size int) *ContainerHistory {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &ContainerHistory{size: size, series: map[string]*containerSeries{}}
}

// Push records one stats sample. Containers absent from it have stopped
// or been removed and lose their history.
func (h *ContainerHistory) Push(list []docker.Stats, now time.Time) {
	seen := make(map[string]bool, len(list))
	for _, st := range list {
		seen[st.ID] = true
		cs, ok := h.series[st.ID]
		if !ok {
			cs = &containerSeries{
				cpu: newRingBuffer(h.size),
				mem: newRingBuffer(h.size),
				net: newRingBuffer(h.size),
			}
			h.series[st.ID] = cs
		}
		cs.cpu.push(st.CPUPercent)
		cs.mem.push(st.MemPercent)

		total := st.NetRx + st.NetTx
		// A restarted container resets its counters; skip that interval.
		if !cs.lastAt.IsZero() && total >= cs.lastNet {
			if secs := now.Sub(cs.lastAt).Seconds(); secs > 0 {
				cs.net.push(float64(total-cs.lastNet) / secs)
			}
		}
		cs.lastNet, cs.lastAt = total, now
	}
	for id := range h.series {
		if !seen[id] {
			delete(h.series, id)
		}
	}
}

// CPU returns up to count CPU percentages for id, oldest first.
func (h *ContainerHistory) CPU(id string, count int) []float64 {
	if cs, ok := h.series[id]; ok {
		return cs.cpu.getLast(count)
	}
	return nil
}

// Mem returns up to count memory percentages for id, oldest first.
func (h *ContainerHistory) Mem(id string, count int) []float64 {
	if cs, ok := h.series[id]; ok {
		return cs.mem.getLast(count)
	}
	return nil
}

// Net returns up to count network rates for id in bytes/s, oldest first.
func (h *ContainerHistory) Net(id string, count int) []float64 {
	if cs, ok := h.series[id]; ok {
		return cs.net.getLast(count)
	}
	return nil
}

// Len returns the number of CPU samples held for id.
func (h *ContainerHistory) Len(id string) int {
	if cs, ok := h.series[id]; ok {
		return cs.cpu.count
	}
	return 0
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	// head is the next write position, so the newest value sits at head-1
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
