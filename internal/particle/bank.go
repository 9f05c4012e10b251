package particle

// Bank collects the secondaries created during one history. Particles come
// out in the order they went in.
type Bank struct {
	states []*State
	head   int
}

// Push appends s.
func (b *Bank) Push(s *State) {
	b.states = append(b.states, s)
}

// Pop removes and returns the oldest particle, or nil when empty.
func (b *Bank) Pop() *State {
	if b.head >= len(b.states) {
		return nil
	}
	s := b.states[b.head]
	b.states[b.head] = nil
	b.head++
	if b.head == len(b.states) {
		b.states = b.states[:0]
		b.head = 0
	}
	return s
}

// Top returns the oldest particle without removing it.
func (b *Bank) Top() *State {
	if b.head >= len(b.states) {
		return nil
	}
	return b.states[b.head]
}

// Len returns the number of particles waiting.
func (b *Bank) Len() int { return len(b.states) - b.head }

// IsEmpty reports whether no particles are waiting.
func (b *Bank) IsEmpty() bool { return b.Len() == 0 }

// Pending returns the waiting particles, oldest first. The slice aliases the
// bank's storage.
func (b *Bank) Pending() []*State { return b.states[b.head:] }
