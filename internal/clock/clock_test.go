package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	result := c.Now()
	after := time.Now()

	assert.False(t, result.Before(before), "RealClock.Now() should not be before the call")
	assert.False(t, result.After(after), "RealClock.Now() should not be after the call")
}

func TestRealClock_NowUnixMilli(t *testing.T) {
	c := RealClock{}
	before := time.Now().UnixMilli()
	result := c.NowUnixMilli()
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, result, before)
	assert.LessOrEqual(t, result, after)
}

func TestMockClock_Now(t *testing.T) {
	fixedTime := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	c := NewMockClock(fixedTime)

	assert.Equal(t, fixedTime, c.Now())
	// Should return the same time on repeated calls
	assert.Equal(t, fixedTime, c.Now())
}

func TestMockClock_NowUnixMilli(t *testing.T) {
	fixedTime := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	c := NewMockClock(fixedTime)

	expected := fixedTime.UnixMilli()
	assert.Equal(t, expected, c.NowUnixMilli())
}

func TestMockClock_Set(t *testing.T) {
	initialTime := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	newTime := time.Date(2024, 12, 25, 12, 0, 0, 0, time.UTC)

	c := NewMockClock(initialTime)
	assert.Equal(t, initialTime, c.Now())

	c.Set(newTime)
	assert.Equal(t, newTime, c.Now())
}

func TestMockClock_Advance(t *testing.T) {
	initialTime := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	c := NewMockClock(initialTime)

	c.Advance(90 * time.Minute)
	assert.Equal(t, initialTime.Add(90*time.Minute), c.Now())

	c.Advance(-30 * time.Minute)
	assert.Equal(t, initialTime.Add(60*time.Minute), c.Now())
}

func TestMockClock_ConcurrentAccess(t *testing.T) {
	c := NewMockClock(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
		}()
		go func() {
			defer wg.Done()
			_ = c.Now()
		}()
	}
	wg.Wait()

	expected := time.Date(2024, 6, 15, 8, 0, 50, 0, time.UTC)
	assert.Equal(t, expected, c.Now())
}
