// Package snapshot holds the point-in-time view of system metrics and the
// store that publishes it to readers.
//
// A Snapshot is treated as immutable once it has been published: producers
// build a fresh value for every sample and readers never modify what they get
// back from the Store.
package snapshot

import (
	"sort"
	"time"
)

// Snapshot is one point-in-time reading of system metrics.
type Snapshot struct {
	Taken time.Time `json:"taken" yaml:"taken"`
	Host  HostInfo  `json:"host" yaml:"host"`

	// CPU holds per-core utilization percentages in stable core order.
	CPU  []float64 `json:"cpu" yaml:"cpu"`
	Load LoadAvg   `json:"load" yaml:"load"`

	Memory Usage `json:"memory" yaml:"memory"`
	Swap   Usage `json:"swap" yaml:"swap"`

	Disks []Disk `json:"disks" yaml:"disks"`

	// Processes is the top of the process table ordered by CPU usage.
	Processes    []Process     `json:"processes" yaml:"processes"`
	ProcessCount int           `json:"process_count" yaml:"process_count"`
	Uptime       time.Duration `json:"uptime" yaml:"uptime"`

	Network []NetInterface `json:"network" yaml:"network"`
	Sensors []Sensor       `json:"sensors" yaml:"sensors"`
}

// HostInfo identifies the machine being sampled.
type HostInfo struct {
	Hostname string `json:"hostname" yaml:"hostname"`
	OS       string `json:"os" yaml:"os"`
	Platform string `json:"platform" yaml:"platform"`
	Kernel   string `json:"kernel" yaml:"kernel"`
}

// LoadAvg holds the 1, 5 and 15 minute load averages.
type LoadAvg struct {
	Load1  float64 `json:"load1" yaml:"load1"`
	Load5  float64 `json:"load5" yaml:"load5"`
	Load15 float64 `json:"load15" yaml:"load15"`
}

// Usage is a used/total byte pair.
type Usage struct {
	Used  uint64 `json:"used" yaml:"used"`
	Total uint64 `json:"total" yaml:"total"`
}

// Percent returns Used as a percentage of Total, or 0 when Total is 0.
func (u Usage) Percent() float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Used) / float64(u.Total) * 100
}

// Free returns Total minus Used.
func (u Usage) Free() uint64 {
	if u.Used >= u.Total {
		return 0
	}
	return u.Total - u.Used
}

// Disk is one mounted filesystem.
type Disk struct {
	Mount  string `json:"mount" yaml:"mount"`
	Device string `json:"device" yaml:"device"`
	FSType string `json:"fstype" yaml:"fstype"`
	Usage  `yaml:",inline"`
}

// Process is one row of the process table.
type Process struct {
	PID        int32   `json:"pid" yaml:"pid"`
	Name       string  `json:"name" yaml:"name"`
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss" yaml:"memory_rss"`
}

// NetInterface carries cumulative byte counters for one interface.
type NetInterface struct {
	Name      string `json:"name" yaml:"name"`
	BytesRecv uint64 `json:"bytes_recv" yaml:"bytes_recv"`
	BytesSent uint64 `json:"bytes_sent" yaml:"bytes_sent"`
}

// Sensor is one temperature reading in degrees Celsius.
// High and Critical are zero when the sensor does not report them.
type Sensor struct {
	Name     string  `json:"name" yaml:"name"`
	Celsius  float64 `json:"celsius" yaml:"celsius"`
	High     float64 `json:"high,omitempty" yaml:"high,omitempty"`
	Critical float64 `json:"critical,omitempty" yaml:"critical,omitempty"`
}

// AverageCPU returns the mean utilization across cores.
func (s *Snapshot) AverageCPU() float64 {
	if s == nil || len(s.CPU) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.CPU {
		sum += v
	}
	return sum / float64(len(s.CPU))
}

// Normalize enforces the snapshot invariants in place: utilization values
// within [0,100], used never above total, and stable ordering for disks and
// processes. Producers call it once before publishing.
func (s *Snapshot) Normalize() {
	for i, v := range s.CPU {
		s.CPU[i] = clampPercent(v)
	}

	s.Memory = s.Memory.clamped()
	s.Swap = s.Swap.clamped()
	for i := range s.Disks {
		s.Disks[i].Usage = s.Disks[i].Usage.clamped()
	}
	sort.SliceStable(s.Disks, func(i, j int) bool {
		return s.Disks[i].Mount < s.Disks[j].Mount
	})

	for i := range s.Processes {
		if s.Processes[i].CPUPercent < 0 {
			s.Processes[i].CPUPercent = 0
		}
	}
	sort.SliceStable(s.Processes, func(i, j int) bool {
		if s.Processes[i].CPUPercent != s.Processes[j].CPUPercent {
			return s.Processes[i].CPUPercent > s.Processes[j].CPUPercent
		}
		return s.Processes[i].PID < s.Processes[j].PID
	})

	if s.ProcessCount < len(s.Processes) {
		s.ProcessCount = len(s.Processes)
	}
	if s.Uptime < 0 {
		s.Uptime = 0
	}
}

func (u Usage) clamped() Usage {
	if u.Used > u.Total {
		u.Used = u.Total
	}
	return u
}

func clampPercent(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
