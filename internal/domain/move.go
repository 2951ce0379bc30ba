package domain

import "strconv"

// Move removes the element at from and inserts it at to in the shortened
// slice, shifting everything in between by one. It works in place, returns s
// for convenience, and panics with a *ReferenceError on an out-of-range
// index. Move(s, to, from) undoes Move(s, from, to).
func Move[T any](s []T, from, to int) []T {
	if from < 0 || from >= len(s) {
		panic(&ReferenceError{Kind: "index", Ref: strconv.Itoa(from)})
	}
	if to < 0 || to >= len(s) {
		panic(&ReferenceError{Kind: "index", Ref: strconv.Itoa(to)})
	}
	if from == to {
		return s
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
	return s
}
