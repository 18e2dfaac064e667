package controller

import (
	"time"

	ttlworker "github.com/FloatTech/ttl"
)

// inflightSet is the de-duplication record for start-transcription
// requests. Membership is time-bounded rather than held like a lock, so a
// lost response can never wedge future attempts. Two windows apply: the
// guard TTL armed when the request is issued, and the shorter cooldown TTL
// re-armed when the response lands, which absorbs near-simultaneous
// duplicate clicks.
type inflightSet struct {
	guard    *ttlworker.Cache[string, time.Time]
	cooldown *ttlworker.Cache[string, time.Time]
}

func newInflightSet(guardTTL, cooldownTTL time.Duration) *inflightSet {
	return &inflightSet{
		guard:    ttlworker.NewCache[string, time.Time](guardTTL),
		cooldown: ttlworker.NewCache[string, time.Time](cooldownTTL),
	}
}

// tryAcquire takes the lease for filename. Returns false while a previous
// request is still guarded or cooling down.
func (s *inflightSet) tryAcquire(filename string) bool {
	if s.held(filename) {
		return false
	}
	s.guard.Set(filename, time.Now())
	return true
}

// settle moves the lease from the guard window to the cooldown window,
// called when a response arrives and duplicates should still be absorbed
// for a short while.
func (s *inflightSet) settle(filename string) {
	s.guard.Delete(filename)
	s.cooldown.Set(filename, time.Now())
}

// release drops the lease entirely (404: the file is gone, nothing to
// protect).
func (s *inflightSet) release(filename string) {
	s.guard.Delete(filename)
	s.cooldown.Delete(filename)
}

// held reports whether filename is currently leased in either window.
func (s *inflightSet) held(filename string) bool {
	return !s.guard.Get(filename).IsZero() || !s.cooldown.Get(filename).IsZero()
}
