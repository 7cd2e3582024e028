package editor

import "sync"

// Ticket identifies one asynchronous request for a logical resource.
type Ticket struct {
	key string
	n   uint64
}

// Sequencer hands out monotonically increasing tickets per key. A result
// should only be applied while its ticket is still current; anything older
// has been superseded. The zero value is ready to use.
type Sequencer struct {
	mu      sync.Mutex
	current map[string]uint64
}

func (s *Sequencer) Next(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		s.current = make(map[string]uint64)
	}
	s.current[key]++
	return Ticket{key: key, n: s.current[key]}
}

// Current reports whether t is the latest ticket issued for its key.
func (s *Sequencer) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current[t.key] == t.n
}

// Invalidate supersedes every outstanding ticket for key.
func (s *Sequencer) Invalidate(key string) {
	s.Next(key)
}
