package model

import (
	"sync"
	"time"
)

// Clock is one side's countdown. It only tracks time; the game decides what
// an expired clock means.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) Expired() bool {
	return c.GetTimeLeft() <= 0
}

// tenths renders the remaining time the way clients display it.
func (c *Clock) tenths() int {
	return int(c.GetTimeLeft().Milliseconds() / 100)
}
