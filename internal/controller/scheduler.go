package controller

import (
	"sync"
	"time"
)

// CancelFunc stops a pending or repeating timer. Cancelling never
// interrupts a callback that already started.
type CancelFunc func()

// Scheduler is the timer capability injected into the controller so tests
// can drive time by hand.
type Scheduler interface {
	// After runs fn once after d.
	After(d time.Duration, fn func()) CancelFunc

	// Every runs fn repeatedly with period d until cancelled.
	Every(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler is the real Scheduler backed by the runtime timers.
type TimerScheduler struct{}

// NewScheduler returns the production scheduler.
func NewScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// After implements Scheduler.
func (s *TimerScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Every implements Scheduler.
func (s *TimerScheduler) Every(d time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
