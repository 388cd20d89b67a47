package sampler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// DefaultTopProcesses is how many processes a snapshot lists when the
// caller does not say otherwise.
const DefaultTopProcesses = 50

// Pseudo filesystems that never carry useful capacity numbers.
var skippedFSTypes = map[string]bool{
	"squashfs": true,
	"overlay":  true,
	"tmpfs":    true,
	"devtmpfs": true,
	"autofs":   true,
}

// systemReaders are the gopsutil calls a GopsutilSource makes. Tests swap
// individual readers to simulate failures.
type systemReaders struct {
	cpuPercent     func(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)
	loadAvg        func(ctx context.Context) (*load.AvgStat, error)
	virtualMemory  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory     func(ctx context.Context) (*mem.SwapMemoryStat, error)
	hostInfo       func(ctx context.Context) (*host.InfoStat, error)
	diskPartitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	diskUsage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	processes      func(ctx context.Context) ([]*process.Process, error)
	netCounters    func(ctx context.Context, perNIC bool) ([]psnet.IOCountersStat, error)
	temperatures   func(ctx context.Context) ([]host.TemperatureStat, error)
}

func gopsutilReaders() systemReaders {
	return systemReaders{
		cpuPercent:     cpu.PercentWithContext,
		loadAvg:        load.AvgWithContext,
		virtualMemory:  mem.VirtualMemoryWithContext,
		swapMemory:     mem.SwapMemoryWithContext,
		hostInfo:       host.InfoWithContext,
		diskPartitions: disk.PartitionsWithContext,
		diskUsage:      disk.UsageWithContext,
		processes:      process.ProcessesWithContext,
		netCounters:    psnet.IOCountersWithContext,
		temperatures:   host.SensorsTemperaturesWithContext,
	}
}

// GopsutilSource reads metrics from the local machine through gopsutil.
//
// CPU and memory are core metrics: when both fail, Collect returns ErrNoData.
// When only one fails it is left out like any other unreadable metric: CPU
// stays empty and Memory stays zero.
type GopsutilSource struct {
	topN int
	log  logger.Logger
	now  func() time.Time
	sys  systemReaders

	omit *omissions

	// Process handles are kept between calls so per-process CPU is measured
	// over the interval since the previous sample instead of process lifetime.
	mu    sync.Mutex
	procs map[int32]*process.Process
}

// GopsutilOption configures a GopsutilSource.
type GopsutilOption func(*GopsutilSource)

// WithTopProcesses sets how many processes are kept, ordered by CPU.
func WithTopProcesses(n int) GopsutilOption {
	return func(s *GopsutilSource) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithSourceLogger sets the logger for omitted entries.
func WithSourceLogger(l logger.Logger) GopsutilOption {
	return func(s *GopsutilSource) {
		if l != nil {
			s.log = l
		}
	}
}

// NewGopsutilSource creates a source for the local machine.
func NewGopsutilSource(opts ...GopsutilOption) *GopsutilSource {
	s := &GopsutilSource{
		topN:  DefaultTopProcesses,
		log:   logger.Default(),
		now:   time.Now,
		sys:   gopsutilReaders(),
		procs: make(map[int32]*process.Process),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.omit = newOmissions(s.log)
	return s
}

// Prime takes the baseline readings that CPU percentages are measured
// against. Without it the first Collect reports zero CPU everywhere.
func (s *GopsutilSource) Prime(ctx context.Context) {
	_, _ = s.sys.cpuPercent(ctx, 0, true)
	s.processes(ctx)
}

// Collect implements Source.
func (s *GopsutilSource) Collect(ctx context.Context) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{Taken: s.now()}

	cpuErr := s.collectCPU(ctx, snap)
	memErr := s.collectMemory(ctx, snap)
	if cpuErr != nil && memErr != nil {
		return nil, fmt.Errorf("%w: cpu: %v; memory: %v", ErrNoData, cpuErr, memErr)
	}
	s.omit.track("cpu", cpuErr)
	s.omit.track("memory", memErr)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.collectHost(ctx, snap)
	s.collectDisks(ctx, snap)
	snap.Processes, snap.ProcessCount = s.processes(ctx)
	s.collectNetwork(ctx, snap)
	s.collectSensors(ctx, snap)

	snap.Normalize()
	return snap, nil
}

func (s *GopsutilSource) collectCPU(ctx context.Context, snap *snapshot.Snapshot) error {
	percents, err := s.sys.cpuPercent(ctx, 0, true)
	if err != nil {
		return err
	}
	if len(percents) == 0 {
		return fmt.Errorf("no cores reported")
	}
	snap.CPU = percents

	if avg, err := s.sys.loadAvg(ctx); err != nil {
		s.omit.fail("load average", err)
	} else {
		s.omit.ok("load average")
		snap.Load = snapshot.LoadAvg{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	}
	return nil
}

func (s *GopsutilSource) collectMemory(ctx context.Context, snap *snapshot.Snapshot) error {
	vm, err := s.sys.virtualMemory(ctx)
	if err != nil {
		return err
	}
	snap.Memory = snapshot.Usage{Used: vm.Used, Total: vm.Total}

	if sw, err := s.sys.swapMemory(ctx); err != nil {
		s.omit.fail("swap", err)
	} else {
		s.omit.ok("swap")
		snap.Swap = snapshot.Usage{Used: sw.Used, Total: sw.Total}
	}
	return nil
}

func (s *GopsutilSource) collectHost(ctx context.Context, snap *snapshot.Snapshot) {
	info, err := s.sys.hostInfo(ctx)
	if err != nil {
		s.omit.fail("host info", err)
		return
	}
	s.omit.ok("host info")
	snap.Host = snapshot.HostInfo{
		Hostname: info.Hostname,
		OS:       info.OS,
		Platform: strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Kernel:   info.KernelVersion,
	}
	snap.Uptime = time.Duration(info.Uptime) * time.Second
}

func (s *GopsutilSource) collectDisks(ctx context.Context, snap *snapshot.Snapshot) {
	parts, err := s.sys.diskPartitions(ctx, false)
	if err != nil {
		s.omit.fail("disk partitions", err)
		return
	}
	s.omit.ok("disk partitions")

	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if skippedFSTypes[p.Fstype] || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true

		key := "disk " + p.Mountpoint
		usage, err := s.sys.diskUsage(ctx, p.Mountpoint)
		if err != nil {
			s.omit.fail(key, err)
			continue
		}
		s.omit.ok(key)
		if usage.Total == 0 {
			continue
		}
		snap.Disks = append(snap.Disks, snapshot.Disk{
			Mount:  p.Mountpoint,
			Device: p.Device,
			FSType: p.Fstype,
			Usage:  snapshot.Usage{Used: usage.Used, Total: usage.Total},
		})
	}
}

// processes returns the busiest processes and the total process count.
func (s *GopsutilSource) processes(ctx context.Context) ([]snapshot.Process, int) {
	procs, err := s.sys.processes(ctx)
	if err != nil {
		s.omit.fail("process table", err)
		return nil, 0
	}
	s.omit.ok("process table")

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[int32]*process.Process, len(procs))
	rows := make([]snapshot.Process, 0, len(procs))
	for _, p := range procs {
		// Reuse the cached handle so Percent measures since the last call.
		if cached, ok := s.procs[p.Pid]; ok {
			p = cached
		}
		live[p.Pid] = p

		pct, err := p.PercentWithContext(ctx, 0)
		if err != nil {
			// Processes exit between listing and reading; not worth logging.
			continue
		}
		name, _ := p.NameWithContext(ctx)
		row := snapshot.Process{PID: p.Pid, Name: name, CPUPercent: pct}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
			row.MemoryRSS = mi.RSS
		}
		rows = append(rows, row)
	}
	s.procs = live

	return topProcesses(rows, s.topN), len(procs)
}

// topProcesses orders rows by CPU, busiest first, and keeps at most n.
func topProcesses(rows []snapshot.Process, n int) []snapshot.Process {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CPUPercent != rows[j].CPUPercent {
			return rows[i].CPUPercent > rows[j].CPUPercent
		}
		return rows[i].PID < rows[j].PID
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func (s *GopsutilSource) collectNetwork(ctx context.Context, snap *snapshot.Snapshot) {
	counters, err := s.sys.netCounters(ctx, true)
	if err != nil {
		s.omit.fail("network counters", err)
		return
	}
	s.omit.ok("network counters")

	for _, c := range counters {
		if isLoopback(c.Name) {
			continue
		}
		snap.Network = append(snap.Network, snapshot.NetInterface{
			Name:      c.Name,
			BytesRecv: c.BytesRecv,
			BytesSent: c.BytesSent,
		})
	}
	sort.Slice(snap.Network, func(i, j int) bool {
		return snap.Network[i].Name < snap.Network[j].Name
	})
}

func isLoopback(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0")
}

func (s *GopsutilSource) collectSensors(ctx context.Context, snap *snapshot.Snapshot) {
	temps, err := s.sys.temperatures(ctx)
	// Partial reads come back with both readings and a warning error.
	if err != nil && len(temps) == 0 {
		s.omit.fail("temperature sensors", err)
		return
	}
	s.omit.ok("temperature sensors")

	for _, t := range temps {
		if t.Temperature <= 0 {
			continue
		}
		snap.Sensors = append(snap.Sensors, snapshot.Sensor{
			Name:     t.SensorKey,
			Celsius:  t.Temperature,
			High:     t.High,
			Critical: t.Critical,
		})
	}
	sort.Slice(snap.Sensors, func(i, j int) bool {
		return snap.Sensors[i].Name < snap.Sensors[j].Name
	})
}
