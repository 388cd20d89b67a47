package snapshot

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage_Percent(t *testing.T) {
	tests := []struct {
		name  string
		usage Usage
		want  float64
	}{
		{"zero total", Usage{Used: 10, Total: 0}, 0},
		{"half", Usage{Used: 50, Total: 100}, 50},
		{"full", Usage{Used: 8 << 30, Total: 8 << 30}, 100},
		{"empty", Usage{Used: 0, Total: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.usage.Percent(), 0.001)
		})
	}
}

func TestUsage_Free(t *testing.T) {
	assert.Equal(t, uint64(40), Usage{Used: 60, Total: 100}.Free())
	assert.Equal(t, uint64(0), Usage{Used: 120, Total: 100}.Free())
}

func TestDisk_PercentIsPromoted(t *testing.T) {
	d := Disk{Mount: "/", Usage: Usage{Used: 25, Total: 100}}
	assert.InDelta(t, 25.0, d.Percent(), 0.001)
}

func TestAverageCPU(t *testing.T) {
	var nilSnap *Snapshot
	assert.Equal(t, 0.0, nilSnap.AverageCPU())
	assert.Equal(t, 0.0, (&Snapshot{}).AverageCPU())

	s := &Snapshot{CPU: []float64{10, 20, 30, 40}}
	assert.InDelta(t, 25.0, s.AverageCPU(), 0.001)
}

func TestNormalize_ClampsUtilization(t *testing.T) {
	s := &Snapshot{
		CPU:    []float64{-5, 50, 140, math.NaN()},
		Memory: Usage{Used: 200, Total: 100},
		Swap:   Usage{Used: 10, Total: 0},
		Disks: []Disk{
			{Mount: "/data", Usage: Usage{Used: 900, Total: 500}},
		},
		Uptime: -time.Second,
	}

	s.Normalize()

	assert.Equal(t, []float64{0, 50, 100, 0}, s.CPU)
	assert.Equal(t, uint64(100), s.Memory.Used)
	assert.Equal(t, uint64(0), s.Swap.Used)
	assert.Equal(t, uint64(500), s.Disks[0].Used)
	assert.Equal(t, time.Duration(0), s.Uptime)
}

func TestNormalize_OrdersDisksAndProcesses(t *testing.T) {
	s := &Snapshot{
		Disks: []Disk{
			{Mount: "/var"},
			{Mount: "/"},
			{Mount: "/home"},
		},
		Processes: []Process{
			{PID: 30, Name: "idle", CPUPercent: 0},
			{PID: 20, Name: "build", CPUPercent: 80},
			{PID: 10, Name: "editor", CPUPercent: 80},
			{PID: 40, Name: "weird", CPUPercent: -3},
		},
	}

	s.Normalize()

	require.Len(t, s.Disks, 3)
	assert.Equal(t, "/", s.Disks[0].Mount)
	assert.Equal(t, "/home", s.Disks[1].Mount)
	assert.Equal(t, "/var", s.Disks[2].Mount)

	require.Len(t, s.Processes, 4)
	assert.Equal(t, int32(10), s.Processes[0].PID, "ties break on PID")
	assert.Equal(t, int32(20), s.Processes[1].PID)
	assert.Equal(t, 0.0, s.Processes[3].CPUPercent)
	assert.Equal(t, 4, s.ProcessCount, "count never below the listed rows")
}

func TestNormalize_KeepsProcessCount(t *testing.T) {
	s := &Snapshot{
		Processes:    []Process{{PID: 1, CPUPercent: 1}},
		ProcessCount: 312,
	}
	s.Normalize()
	assert.Equal(t, 312, s.ProcessCount)
}
