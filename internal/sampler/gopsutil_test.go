package sampler

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/logger"
)

// fakeReaders returns readers for a small healthy machine with one mount
// that cannot be read.
func fakeReaders() systemReaders {
	return systemReaders{
		cpuPercent: func(context.Context, time.Duration, bool) ([]float64, error) {
			return []float64{10, 20}, nil
		},
		loadAvg: func(context.Context) (*load.AvgStat, error) {
			return &load.AvgStat{Load1: 0.5, Load5: 0.25, Load15: 0.1}, nil
		},
		virtualMemory: func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Used: 2 << 30, Total: 4 << 30}, nil
		},
		swapMemory: func(context.Context) (*mem.SwapMemoryStat, error) {
			return &mem.SwapMemoryStat{}, nil
		},
		hostInfo: func(context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{Hostname: "testbox", Uptime: 3600}, nil
		},
		diskPartitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return []disk.PartitionStat{
				{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
				{Device: "/dev/sdb1", Mountpoint: "/mnt/broken", Fstype: "ext4"},
				{Device: "tmpfs", Mountpoint: "/run", Fstype: "tmpfs"},
			}, nil
		},
		diskUsage: func(_ context.Context, path string) (*disk.UsageStat, error) {
			if path == "/mnt/broken" {
				return nil, errors.New("stale file handle")
			}
			return &disk.UsageStat{Path: path, Used: 10 << 30, Total: 100 << 30}, nil
		},
		processes: func(context.Context) ([]*process.Process, error) {
			return nil, nil
		},
		netCounters: func(context.Context, bool) ([]psnet.IOCountersStat, error) {
			return []psnet.IOCountersStat{
				{Name: "lo", BytesRecv: 1, BytesSent: 1},
				{Name: "eth0", BytesRecv: 100, BytesSent: 50},
			}, nil
		},
		temperatures: func(context.Context) ([]host.TemperatureStat, error) {
			return nil, nil
		},
	}
}

func fakeSource(sys systemReaders) (*GopsutilSource, *logger.BufferLogger) {
	log := logger.NewBufferLogger()
	s := NewGopsutilSource(WithSourceLogger(log))
	s.sys = sys
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s, log
}

func warnings(log *logger.BufferLogger) []string {
	var out []string
	for _, m := range log.Entries() {
		if m.Level == "warn" {
			out = append(out, m.Message)
		}
	}
	return out
}

func TestGopsutilSource_Collect(t *testing.T) {
	s, _ := fakeSource(fakeReaders())

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20}, snap.CPU)
	assert.Equal(t, 0.5, snap.Load.Load1)
	assert.Equal(t, uint64(4<<30), snap.Memory.Total)
	assert.Equal(t, "testbox", snap.Host.Hostname)
	assert.Equal(t, time.Hour, snap.Uptime)
	assert.Equal(t, time.Unix(1700000000, 0), snap.Taken)

	require.Len(t, snap.Network, 1, "loopback is filtered")
	assert.Equal(t, "eth0", snap.Network[0].Name)
}

func TestGopsutilSource_OneMountFails(t *testing.T) {
	s, log := fakeSource(fakeReaders())

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Disks, 1, "the broken mount and tmpfs are omitted")
	assert.Equal(t, "/", snap.Disks[0].Mount)

	warns := warnings(log)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "omitting disk /mnt/broken")
	assert.Contains(t, warns[0], "stale file handle")

	_, err = s.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, log.Count("warn"), "a mount that keeps failing is logged once")
}

func TestGopsutilSource_CPUFailsMemoryWorks(t *testing.T) {
	sys := fakeReaders()
	cpuDown := true
	sys.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		if cpuDown {
			return nil, errors.New("permission denied")
		}
		return []float64{30}, nil
	}
	s, log := fakeSource(sys)

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.CPU)
	assert.Equal(t, uint64(2<<30), snap.Memory.Used)
	assert.Equal(t, uint64(4<<30), snap.Memory.Total)
	assert.Contains(t, strings.Join(warnings(log), "\n"), "omitting cpu: permission denied")

	cpuDown = false
	snap, err = s.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{30}, snap.CPU)
	assert.Equal(t, 1, log.Count("info"), "recovery is logged")
	assert.Contains(t, log.Entries()[len(log.Entries())-1].Message, "cpu is readable again")
}

func TestGopsutilSource_MemoryFailsCPUWorks(t *testing.T) {
	sys := fakeReaders()
	sys.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no /proc/meminfo")
	}
	s, log := fakeSource(sys)

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20}, snap.CPU)
	assert.Zero(t, snap.Memory.Total)
	assert.Contains(t, strings.Join(warnings(log), "\n"), "omitting memory")
}

func TestGopsutilSource_CoreMetricsFail(t *testing.T) {
	sys := fakeReaders()
	sys.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return nil, errors.New("cpu gone")
	}
	sys.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("memory gone")
	}
	s, _ := fakeSource(sys)

	snap, err := s.Collect(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "cpu gone")
	assert.Contains(t, err.Error(), "memory gone")
}

func TestGopsutilSource_NoCoresCountsAsFailure(t *testing.T) {
	sys := fakeReaders()
	sys.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{}, nil
	}
	s, log := fakeSource(sys)

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.CPU)
	assert.Contains(t, strings.Join(warnings(log), "\n"), "no cores reported")
}

func TestGopsutilSource_PartialSensorRead(t *testing.T) {
	sys := fakeReaders()
	sys.temperatures = func(context.Context) ([]host.TemperatureStat, error) {
		return []host.TemperatureStat{
			{SensorKey: "nvme", Temperature: 41, High: 80, Critical: 90},
			{SensorKey: "acpitz", Temperature: 0},
			{SensorKey: "coretemp", Temperature: 55},
		}, errors.New("some sensors unreadable")
	}
	s, log := fakeSource(sys)

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Sensors, 2, "zero readings are dropped")
	assert.Equal(t, "coretemp", snap.Sensors[0].Name)
	assert.Equal(t, "nvme", snap.Sensors[1].Name)
	assert.NotContains(t, strings.Join(warnings(log), "\n"), "temperature sensors")
}

func TestGopsutilSource_OptionalReadersFail(t *testing.T) {
	sys := fakeReaders()
	boom := errors.New("boom")
	sys.loadAvg = func(context.Context) (*load.AvgStat, error) { return nil, boom }
	sys.hostInfo = func(context.Context) (*host.InfoStat, error) { return nil, boom }
	sys.netCounters = func(context.Context, bool) ([]psnet.IOCountersStat, error) { return nil, boom }
	s, log := fakeSource(sys)

	snap, err := s.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20}, snap.CPU)
	assert.Zero(t, snap.Load)
	assert.Empty(t, snap.Host.Hostname)
	assert.Empty(t, snap.Network)

	all := strings.Join(warnings(log), "\n")
	for _, key := range []string{"load average", "host info", "network counters"} {
		assert.Contains(t, all, "omitting "+key)
	}
}

func TestGopsutilSource_CancelledContext(t *testing.T) {
	s, _ := fakeSource(fakeReaders())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := s.Collect(ctx)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGopsutilSource_Prime(t *testing.T) {
	sys := fakeReaders()
	var cpuCalls, procCalls atomic.Int32
	sys.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		cpuCalls.Add(1)
		return []float64{0}, nil
	}
	sys.processes = func(context.Context) ([]*process.Process, error) {
		procCalls.Add(1)
		return nil, nil
	}
	s, _ := fakeSource(sys)

	s.Prime(context.Background())

	assert.Equal(t, int32(1), cpuCalls.Load())
	assert.Equal(t, int32(1), procCalls.Load())
}

// Reads the machine the tests run on. Values vary, so only the limits
// Normalize guarantees are checked.
func TestGopsutilSource_LocalMachine(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the local machine")
	}
	s := NewGopsutilSource(WithTopProcesses(5))
	s.Prime(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	snap, err := s.Collect(ctx)
	if errors.Is(err, ErrNoData) {
		t.Skipf("no system metrics on this machine: %v", err)
	}
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.False(t, snap.Taken.IsZero())
	for i, v := range snap.CPU {
		assert.GreaterOrEqual(t, v, 0.0, "cpu %d", i)
		assert.LessOrEqual(t, v, 100.0, "cpu %d", i)
	}
	assert.LessOrEqual(t, snap.Memory.Used, snap.Memory.Total)
	assert.LessOrEqual(t, snap.Swap.Used, snap.Swap.Total)
	for _, d := range snap.Disks {
		assert.LessOrEqual(t, d.Usage.Used, d.Usage.Total, d.Mount)
	}
	assert.LessOrEqual(t, len(snap.Processes), 5)
	assert.GreaterOrEqual(t, snap.ProcessCount, len(snap.Processes))
	for _, p := range snap.Processes {
		assert.GreaterOrEqual(t, p.CPUPercent, 0.0, p.Name)
	}
	assert.GreaterOrEqual(t, snap.Uptime, time.Duration(0))
}
