package service

import "sync"

// kindLocks serializes mutations per entity kind.
//
// A mutation holds its own kind's write lock. A child mutation also read-locks
// its parent kind for the whole operation so the parent it validated cannot be
// deleted before the child is written. Locks are always taken child first
// (temperature, city, country). Reads take no lock.
type kindLocks struct {
	country     sync.RWMutex
	city        sync.RWMutex
	temperature sync.RWMutex
}

func (l *kindLocks) lockCountry() func() {
	l.country.Lock()
	return l.country.Unlock
}

func (l *kindLocks) lockCity() func() {
	l.city.Lock()
	l.country.RLock()
	return func() {
		l.country.RUnlock()
		l.city.Unlock()
	}
}

func (l *kindLocks) lockTemperature() func() {
	l.temperature.Lock()
	l.city.RLock()
	return func() {
		l.city.RUnlock()
		l.temperature.Unlock()
	}
}
