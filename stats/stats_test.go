package stats

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Update(t *testing.T) {
	tracker := &Stats{SchedulerID: "s-1"}
	tracker.Update(Delta{Scheduled: 3, Executed: 2, Ticks: 1})
	tracker.Update(Delta{Scheduled: 1, Deduped: 1, Sweeps: 2})

	snapshot := tracker.Snapshot()
	assert.Equal(t, "s-1", snapshot.SchedulerID)
	assert.Equal(t, 4, snapshot.Scheduled)
	assert.Equal(t, 1, snapshot.Deduped)
	assert.Equal(t, 2, snapshot.Executed)
	assert.Equal(t, 1, snapshot.Ticks)
	assert.Equal(t, 2, snapshot.Sweeps)
}

func TestStats_UpdateConcurrent(t *testing.T) {
	tracker := &Stats{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Scheduled: 1, Executed: 1})
		}()
	}
	wg.Wait()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 50, snapshot.Scheduled)
	assert.Equal(t, 50, snapshot.Executed)
}

func TestStats_OnChange(t *testing.T) {
	tracker := &Stats{}
	var seen []int
	tracker.OnChange(func(s Snapshot) {
		seen = append(seen, s.Scheduled)
	})

	tracker.Update(Delta{Scheduled: 1})
	tracker.Update(Delta{Scheduled: 1})
	assert.Equal(t, []int{1, 2}, seen)

	tracker.OnChange(nil)
	tracker.Update(Delta{Scheduled: 1})
	assert.Equal(t, []int{1, 2}, seen)
}

func TestStats_NilReceiver(t *testing.T) {
	var tracker *Stats
	tracker.Update(Delta{Scheduled: 1})
	tracker.OnChange(func(Snapshot) {})
	assert.Equal(t, Snapshot{}, tracker.Snapshot())
}

func TestContextHelpers(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(nil))

	tracker := &Stats{SchedulerID: "s-1"}
	ctx := WithTracker(context.Background(), tracker)
	assert.Same(t, tracker, FromContext(ctx))

	// A nil tracker is not embedded.
	ctx = WithTracker(context.Background(), nil)
	assert.Nil(t, FromContext(ctx))
}
