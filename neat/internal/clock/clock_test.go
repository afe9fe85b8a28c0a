package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopwatchStopFreezesElapsed(t *testing.T) {
	sw := New()
	time.Sleep(time.Millisecond)
	stopped := sw.Stop()
	assert.Positive(t, stopped)

	time.Sleep(time.Millisecond)
	assert.Equal(t, stopped, sw.Elapsed())
}

func TestStopwatchResetRestartsClock(t *testing.T) {
	sw := New()
	time.Sleep(time.Millisecond)
	sw.Stop()
	sw.Reset()
	assert.Less(t, sw.Elapsed(), 5*time.Millisecond)
}
