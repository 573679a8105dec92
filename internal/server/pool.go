package server

import (
	"slices"
	"sync"
)

// pool is the waiting room. Whenever enough bots are waiting, the longest
// waiting ones are handed to start as a new table.
type pool struct {
	mu      sync.Mutex
	waiting []*Bot
	seats   int
	closed  bool
	start   func([]*Bot)
}

func newPool(seats int, start func([]*Bot)) *pool {
	return &pool{seats: seats, start: start}
}

// add puts a bot in the waiting room. Bots that already disconnected are
// ignored.
func (p *pool) add(b *Bot) {
	select {
	case <-b.Done():
		return
	default:
	}

	p.mu.Lock()
	if p.closed || slices.Contains(p.waiting, b) {
		p.mu.Unlock()
		return
	}
	p.waiting = append(p.waiting, b)
	table := p.match()
	p.mu.Unlock()

	if table != nil {
		p.start(table)
	}
}

// match must be called with mu held.
func (p *pool) match() []*Bot {
	// Drop anybody who left while waiting.
	p.waiting = slices.DeleteFunc(p.waiting, func(b *Bot) bool {
		select {
		case <-b.Done():
			return true
		default:
			return false
		}
	})
	if len(p.waiting) < p.seats {
		return nil
	}
	table := slices.Clone(p.waiting[:p.seats])
	p.waiting = slices.Delete(p.waiting, 0, p.seats)
	return table
}

func (p *pool) remove(b *Bot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waiting = slices.DeleteFunc(p.waiting, func(w *Bot) bool { return w == b })
}

func (p *pool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiting)
}

// close stops matchmaking.
func (p *pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.waiting = nil
}
