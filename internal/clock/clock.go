package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time in whole seconds since the Unix epoch.
// Every time-dependent decision in the engine goes through a Clock so
// tests can pin the clock to an exact instant.
type Clock interface {
	Now() int64
}

// System is the production clock backed by time.Now.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (*System) Now() int64 {
	return time.Now().Unix()
}

// Fake is a settable clock for tests.
type Fake struct {
	mu  sync.Mutex
	now int64
}

func NewFake(now int64) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set pins the clock to the given epoch second.
func (f *Fake) Set(now int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Advance moves the clock forward by d seconds.
func (f *Fake) Advance(d int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += d
}
