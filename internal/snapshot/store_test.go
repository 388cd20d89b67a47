package snapshot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UnavailableBeforeFirstPublish(t *testing.T) {
	s := NewStore()

	snap, ok := s.Current()
	assert.False(t, ok)
	assert.Nil(t, snap)
	assert.Equal(t, uint64(0), s.Generation())
}

func TestStore_ReturnsLatest(t *testing.T) {
	s := NewStore()

	var last *Snapshot
	for i := 0; i < 5; i++ {
		last = &Snapshot{ProcessCount: i}
		s.Publish(last)
	}

	got, ok := s.Current()
	require.True(t, ok)
	assert.Same(t, last, got)
	assert.Equal(t, uint64(5), s.Generation())
}

func TestStore_NilPublishIgnored(t *testing.T) {
	s := NewStore()
	first := &Snapshot{ProcessCount: 7}
	s.Publish(first)

	s.Publish(nil)

	got, ok := s.Current()
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, uint64(1), s.Generation())
}

// Readers racing a writer must only ever see complete snapshots; each one is
// built so its fields agree with each other.
func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := NewStore()
	const writes = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			cpu := make([]float64, 4)
			for c := range cpu {
				cpu[c] = float64(i % 100)
			}
			s.Publish(&Snapshot{
				CPU:          cpu,
				ProcessCount: i,
				Memory:       Usage{Used: uint64(i), Total: uint64(i)},
			})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lastSeen := 0
			for i := 0; i < writes; i++ {
				snap, ok := s.Current()
				if !ok {
					continue
				}
				if snap.ProcessCount < lastSeen {
					t.Errorf("went backwards: %d after %d", snap.ProcessCount, lastSeen)
					return
				}
				lastSeen = snap.ProcessCount
				if snap.Memory.Used != uint64(snap.ProcessCount) || len(snap.CPU) != 4 {
					t.Errorf("torn snapshot: %+v", snap)
					return
				}
			}
		}()
	}

	wg.Wait()
	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, writes, got.ProcessCount)
}
