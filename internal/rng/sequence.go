package rng

// Sequence replays a fixed list of numbers, cycling when exhausted. It is
// meant for tests that need to pin every random draw.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a Sequence over values. Values must lie in [0, 1).
func NewSequence(values ...float64) *Sequence {
	for _, v := range values {
		if v < 0 || v >= 1 {
			panic("rng: sequence value outside [0, 1)")
		}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Drawn reports how many numbers have been consumed since the last wrap.
func (s *Sequence) Drawn() int {
	return s.next
}
