// Package clock выдаёт метки времени изменения черновиков.
package clock

import (
	"sync"
	"time"
)

// MillisClock - часы в миллисекундах Unix, которые никогда не идут назад.
// Как часы Лампорта, но счётчик подтягивается к физическому времени:
// Tick возвращает max(now, last+1), Observe учитывает уже известные метки.
type MillisClock struct {
	now  func() time.Time
	last int64
	mu   sync.Mutex
}

// New создает часы поверх time.Now.
func New() *MillisClock {
	return NewWithSource(time.Now)
}

// NewWithSource создает часы с заданным источником физического времени.
// Используется для тестирования.
func NewWithSource(now func() time.Time) *MillisClock {
	return &MillisClock{now: now}
}

// Tick returns a timestamp strictly greater than every value returned or
// observed before.
func (c *MillisClock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UnixMilli()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}

// Observe registers a timestamp seen elsewhere, e.g. the modification time of a
// stored copy, so the next Tick is later than it.
func (c *MillisClock) Observe(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ts > c.last {
		c.last = ts
	}
}

// Last returns the most recent value without advancing the clock.
func (c *MillisClock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}
