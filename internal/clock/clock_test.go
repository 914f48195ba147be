package clock_test

import (
	"testing"
	"time"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/clock"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	c := clock.NewManual(epoch)
	var order []string

	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, 2, c.Pending())

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(1150*time.Millisecond), c.Now())
	assert.Equal(t, 0, c.Pending())
}

func TestManualStop(t *testing.T) {
	c := clock.NewManual(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualStopAfterFire(t *testing.T) {
	c := clock.NewManual(epoch)
	tm := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	assert.False(t, tm.Stop())
}

func TestManualCallbackSchedulesTimer(t *testing.T) {
	c := clock.NewManual(epoch)
	var at []time.Time
	c.AfterFunc(100*time.Millisecond, func() {
		at = append(at, c.Now())
		c.AfterFunc(100*time.Millisecond, func() { at = append(at, c.Now()) })
	})

	c.Advance(time.Second)
	assert.Equal(t, []time.Time{epoch.Add(100 * time.Millisecond), epoch.Add(200 * time.Millisecond)}, at)
}

func TestRealClock(t *testing.T) {
	c := clock.Real()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("real timer did not fire")
	}
	assert.False(t, c.Now().IsZero())
}
