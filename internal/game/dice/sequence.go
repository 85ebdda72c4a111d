package dice

import "sync"

// SequenceSource replays a fixed sequence of pre-decided values, wrapping
// when exhausted. It exists so tests and audit replays can pin every roll:
// the same (world, command, sequence) triple always reduces to the same
// events.
//
// Invariant: Intn(n) returns values[i] clamped into [0, n).
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceSource creates a SequenceSource over the given values.
//
// Precondition: values must be non-empty; all values must be >= 0.
func NewSequenceSource(values ...int) *SequenceSource {
	if len(values) == 0 {
		panic("dice: NewSequenceSource called with no values")
	}
	for _, v := range values {
		if v < 0 {
			panic("dice: NewSequenceSource called with negative value")
		}
	}
	return &SequenceSource{values: values}
}

// Intn returns the next scripted value modulo n.
//
// Precondition: n > 0.
// Postcondition: Return value is in [0, n); the cursor advances by one,
// wrapping at the end of the sequence.
func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
