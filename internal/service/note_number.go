package service

import (
	"strconv"
	"sync"
	"time"
)

// NoteNumberGenerator issues "NT-<epoch millis>" numbers. Two calls in the
// same millisecond get consecutive values, so numbers never repeat within
// the process.
type NoteNumberGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewNoteNumberGenerator() *NoteNumberGenerator {
	return &NoteNumberGenerator{now: time.Now}
}

func (g *NoteNumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "NT-" + strconv.FormatInt(ms, 10)
}
