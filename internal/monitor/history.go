package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// DefaultHistorySize is the default number of samples retained per metric.
const DefaultHistorySize = 240

// History keeps recent values for sparklines and network rates. It is fed
// by the sampler on every published snapshot and read by the renderer.
type History struct {
	mu    sync.RWMutex
	size  int
	taken *ringBuffer // sample times, unix seconds
	cpu   *ringBuffer
	mem   *ringBuffer
	swap  *ringBuffer
	net   map[string]*networkHistory
}

// networkHistory holds cumulative counters for one interface.
type networkHistory struct {
	taken *ringBuffer
	recv  *ringBuffer
	sent  *ringBuffer
}

// NetworkRate is the throughput of one interface between the last two samples.
type NetworkRate struct {
	Interface     string  `json:"interface" yaml:"interface"`
	RecvPerSecond float64 `json:"recv_per_second" yaml:"recv_per_second"`
	SentPerSecond float64 `json:"sent_per_second" yaml:"sent_per_second"`
	TotalRecv     uint64  `json:"total_recv" yaml:"total_recv"`
	TotalSent     uint64  `json:"total_sent" yaml:"total_sent"`
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history retaining size samples per metric.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:  size,
		taken: newRingBuffer(size),
		cpu:   newRingBuffer(size),
		mem:   newRingBuffer(size),
		swap:  newRingBuffer(size),
		net:   make(map[string]*networkHistory),
	}
}

// Record appends a snapshot. CPU and memory values the snapshot does not
// carry are skipped rather than recorded as zero, and interfaces missing from
// snap are forgotten.
func (h *History) Record(snap *snapshot.Snapshot) {
	if snap == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	at := unixSeconds(snap.Taken)
	h.taken.push(at)
	if len(snap.CPU) > 0 {
		h.cpu.push(snap.AverageCPU())
	}
	if snap.Memory.Total > 0 {
		h.mem.push(snap.Memory.Percent())
	}
	h.swap.push(snap.Swap.Percent())

	present := make(map[string]bool, len(snap.Network))
	for _, iface := range snap.Network {
		present[iface.Name] = true
		nh, ok := h.net[iface.Name]
		if !ok {
			nh = &networkHistory{
				taken: newRingBuffer(h.size),
				recv:  newRingBuffer(h.size),
				sent:  newRingBuffer(h.size),
			}
			h.net[iface.Name] = nh
		}
		nh.taken.push(at)
		nh.recv.push(float64(iface.BytesRecv))
		nh.sent.push(float64(iface.BytesSent))
	}
	for name := range h.net {
		if !present[name] {
			delete(h.net, name)
		}
	}
}

// CPU returns up to count average-CPU values, oldest first.
func (h *History) CPU(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cpu.getLast(count)
}

// Memory returns up to count memory-usage percentages, oldest first.
func (h *History) Memory(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mem.getLast(count)
}

// Swap returns up to count swap-usage percentages, oldest first.
func (h *History) Swap(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.swap.getLast(count)
}

// Len returns the number of recorded samples.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.taken.count
}

// NetworkRates returns per-interface throughput over the last two samples,
// sorted by interface name. Interfaces with fewer than two samples are
// skipped. A counter that went backwards (reset or wraparound) reads as 0.
func (h *History) NetworkRates() []NetworkRate {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var rates []NetworkRate
	for name, nh := range h.net {
		taken := nh.taken.getLast(2)
		recv := nh.recv.getLast(2)
		sent := nh.sent.getLast(2)
		if len(taken) < 2 || len(recv) < 2 || len(sent) < 2 {
			continue
		}

		elapsed := taken[1] - taken[0]
		if elapsed <= 0 {
			continue
		}

		recvDelta := recv[1] - recv[0]
		sentDelta := sent[1] - sent[0]
		if recvDelta < 0 {
			recvDelta = 0
		}
		if sentDelta < 0 {
			sentDelta = 0
		}

		rates = append(rates, NetworkRate{
			Interface:     name,
			RecvPerSecond: recvDelta / elapsed,
			SentPerSecond: sentDelta / elapsed,
			TotalRecv:     uint64(recv[1]),
			TotalSent:     uint64(sent[1]),
		})
	}

	sort.Slice(rates, func(i, j int) bool { return rates[i].Interface < rates[j].Interface })
	return rates
}

// TotalNetworkRate sums NetworkRates across interfaces.
func (h *History) TotalNetworkRate() (recvPerSecond, sentPerSecond float64) {
	for _, r := range h.NetworkRates() {
		recvPerSecond += r.RecvPerSecond
		sentPerSecond += r.SentPerSecond
	}
	return
}

// Clear drops all samples.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taken = newRingBuffer(h.size)
	h.cpu = newRingBuffer(h.size)
	h.mem = newRingBuffer(h.size)
	h.swap = newRingBuffer(h.size)
	h.net = make(map[string]*networkHistory)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// newRingBuffer creates a new ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
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
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
