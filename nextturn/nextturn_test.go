package nextturn

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicrotask_Order(t *testing.T) {
	m := NewMicrotask()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 1; i <= 3; i++ {
		i := i
		m.Next(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestMicrotask_Cancel(t *testing.T) {
	m := NewMicrotask()

	// A blocked head keeps the drainer busy so the second callback is still
	// cancellable.
	release := make(chan struct{})
	started := make(chan struct{})
	m.Next(func() {
		close(started)
		<-release
	})
	<-started

	ran := make(chan struct{})
	cancel := m.Next(func() { close(ran) })
	assert.Equal(t, 1, m.Pending())
	assert.True(t, cancel())
	assert.False(t, cancel())
	assert.Equal(t, 0, m.Pending())

	close(release)
	select {
	case <-ran:
		t.Fatal("cancelled callback ran")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMicrotask_ReschedulesFromCallback(t *testing.T) {
	m := NewMicrotask()

	done := make(chan struct{})
	m.Next(func() {
		m.Next(func() { close(done) })
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested callback never ran")
	}
}

func TestManual_AdvanceAndPending(t *testing.T) {
	m := NewManual()

	var order []string
	m.Next(func() { order = append(order, "first") })
	m.Next(func() { order = append(order, "second") })
	assert.Equal(t, 2, m.Pending())

	require.True(t, m.Advance())
	assert.Equal(t, []string{"first"}, order)
	assert.Equal(t, 1, m.Pending())

	assert.Equal(t, 1, m.AdvanceAll())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.False(t, m.Advance())
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()

	ran := false
	cancel := m.Next(func() { ran = true })
	assert.True(t, cancel())
	assert.False(t, cancel())
	assert.Equal(t, 0, m.Pending())

	assert.False(t, m.Advance())
	assert.False(t, ran)
}

func TestManual_AdvanceAllRunsNestedCallbacks(t *testing.T) {
	m := NewManual()

	count := 0
	m.Next(func() {
		count++
		m.Next(func() { count++ })
	})
	assert.Equal(t, 2, m.AdvanceAll())
	assert.Equal(t, 2, count)
}

func TestTimer_Next(t *testing.T) {
	tm := NewTimer()

	done := make(chan struct{})
	tm.Next(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer callback never ran")
	}
}

func TestTimer_Cancel(t *testing.T) {
	tm := &Timer{Delay: 50 * time.Millisecond}

	ran := make(chan struct{})
	cancel := tm.Next(func() { close(ran) })
	assert.True(t, cancel())

	select {
	case <-ran:
		t.Fatal("cancelled timer callback ran")
	case <-time.After(100 * time.Millisecond):
	}
}
