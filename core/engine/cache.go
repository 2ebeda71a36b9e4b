package engine

import (
	"sync"
	"time"

	"github.com/aguerin/carnet/core/model"
)

// Memo caches the last computed alert list. The engine itself is a pure
// function; the memo lets a hosting service skip recomputation while the
// fleet store revision and the civil date are unchanged. Remaining-day
// figures only move at day granularity, so the date is enough of a key.
type Memo struct {
	mu     sync.Mutex
	rev    uint64
	day    string
	alerts []model.Alert
	valid  bool
}

// Get returns the cached alerts when rev and today's date match the last
// computation, otherwise it invokes compute and caches the result.
func (m *Memo) Get(rev uint64, today time.Time, compute func() []model.Alert) []model.Alert {
	day := today.UTC().Format("2006-01-02")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.rev == rev && m.day == day {
		return m.alerts
	}
	m.alerts = compute()
	m.rev = rev
	m.day = day
	m.valid = true
	return m.alerts
}

// Invalidate drops the cached result. Callers use it when an input outside
// the revision counter changes.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.alerts = nil
	m.mu.Unlock()
}
