package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerSchedulerFires(t *testing.T) {
	fired := make(chan struct{})
	TimerScheduler{}.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
}

func TestTimerSchedulerStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := TimerScheduler{}.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	select {
	case <-fired:
		t.Fatal("stopped task fired")
	case <-time.After(100 * time.Millisecond):
	}
}
