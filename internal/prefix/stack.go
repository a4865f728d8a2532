package prefix

// Stack is a fixed-capacity stack holding at most MaxDepth elements.
// Growing past the capacity fails with ErrTooDeep instead of reallocating.
type Stack[T any] struct {
	items [MaxDepth]T
	n     int
}

func (s *Stack[T]) Len() int { return s.n }

// Push appends v on top of the stack.
func (s *Stack[T]) Push(v T) error {
	if s.n == MaxDepth {
		return ErrTooDeep
	}
	s.items[s.n] = v
	s.n++
	return nil
}

// Pop removes and returns the top element. It panics on an empty stack.
func (s *Stack[T]) Pop() T {
	s.n--
	v := s.items[s.n]
	var zero T
	s.items[s.n] = zero
	return v
}

// Top returns the top element and whether the stack is non-empty.
func (s *Stack[T]) Top() (T, bool) {
	if s.n == 0 {
		var zero T
		return zero, false
	}
	return s.items[s.n-1], true
}

func (s *Stack[T]) At(i int) T { return s.items[i] }

func (s *Stack[T]) Set(i int, v T) { s.items[i] = v }

// Truncate drops elements above n.
func (s *Stack[T]) Truncate(n int) {
	for s.n > n {
		s.Pop()
	}
}

// Fill pushes v until the stack holds n elements.
func (s *Stack[T]) Fill(n int, v T) error {
	for s.n < n {
		if err := s.Push(v); err != nil {
			return err
		}
	}
	return nil
}
