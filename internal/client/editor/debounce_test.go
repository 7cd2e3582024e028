package editor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer(t *testing.T) {
	var s Sequencer

	a1 := s.Next("a")
	assert.True(t, s.Current(a1))

	b1 := s.Next("b")
	a2 := s.Next("a")
	assert.False(t, s.Current(a1))
	assert.True(t, s.Current(a2))
	assert.True(t, s.Current(b1), "keys are independent")

	s.Invalidate("a")
	assert.False(t, s.Current(a2))
}

func TestSequencer_Concurrent(t *testing.T) {
	var s Sequencer
	var wg sync.WaitGroup
	tickets := make(chan Ticket, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickets <- s.Next("k")
		}()
	}
	wg.Wait()
	close(tickets)

	current := 0
	for tk := range tickets {
		if s.Current(tk) {
			current++
		}
	}
	assert.Equal(t, 1, current)
}

func TestDebouncer_BurstFiresOnce(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 10; i++ {
		v := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(v)
		})
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(10), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_CancelAndStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32

	assert.False(t, d.Cancel())
	d.Trigger(func() { calls.Add(1) })
	assert.True(t, d.Cancel())

	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	assert.False(t, d.Pending())

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
