package social

// Sequence hands out strictly increasing identifiers starting at 1.
type Sequence[T ~int] struct {
	next T
}

func NewSequence[T ~int]() *Sequence[T] {
	return &Sequence[T]{next: 1}
}

// Next returns the current value and advances the counter.
func (s *Sequence[T]) Next() T {
	id := s.next
	s.next++
	return id
}

// Peek returns the value Next would return without consuming it.
func (s *Sequence[T]) Peek() T {
	return s.next
}

func (s *Sequence[T]) Reset() {
	s.next = 1
}

// Set forces the counter, only used when a snapshot is restored.
func (s *Sequence[T]) Set(value T) {
	s.next = value
}
