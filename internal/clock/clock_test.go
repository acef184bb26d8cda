// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_AdvanceRunsDueTasksInOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string

	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(99 * time.Millisecond)
	assert.Empty(t, got)

	m.Advance(1 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, epoch.Add(1100*time.Millisecond), m.Now())
	assert.Zero(t, m.Pending())
}

func TestManual_NowDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(250*time.Millisecond, func() { at = m.Now() })

	m.Advance(time.Second)
	assert.Equal(t, epoch.Add(250*time.Millisecond), at)
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	task := m.AfterFunc(time.Second, func() { ran = true })

	require.True(t, task.Stop())
	assert.False(t, task.Stop(), "second Stop should report false")

	m.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestManual_StopAfterRun(t *testing.T) {
	m := NewManual(epoch)
	task := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	assert.False(t, task.Stop())
}

func TestManual_RescheduleFromCallback(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(200*time.Millisecond, tick)
	}
	m.AfterFunc(200*time.Millisecond, tick)

	m.Advance(time.Second)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, m.Pending())
}

func TestSerialized_HoldsLockDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var mu sync.Mutex
	c := Serialized(m, &mu)

	locked := false
	c.AfterFunc(time.Millisecond, func() {
		// TryLock fails while the wrapper holds mu.
		locked = !mu.TryLock()
	})
	m.Advance(time.Millisecond)

	assert.True(t, locked)
	assert.True(t, mu.TryLock(), "lock must be released after the callback")
	mu.Unlock()
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not run")
	}
}
