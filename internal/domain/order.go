package domain

import "fmt"

// Move returns a copy of items with the element at from moved to index to,
// shifting the elements in between.
// Example: Move([a b c d], 0, 2) -> [b c a d]
func Move[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: move %d -> %d out of range [0,%d)", ErrNotFound, from, to, n)
	}

	out := make([]T, 0, n)
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out, moved) // grow by one, then shift right
	copy(out[to+1:], out[to:n-1])
	out[to] = moved
	return out, nil
}

// Permute returns items rearranged so that out[i] = items[order[i]].
// order must be a permutation of 0..len(items)-1.
func Permute[T any](items []T, order []int) ([]T, error) {
	if err := CheckPermutation(order, len(items)); err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return out, nil
}

// CheckPermutation verifies that order holds each index 0..n-1 exactly once.
func CheckPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: order has %d entries, want %d", ErrValidation, len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: index %d out of range", ErrValidation, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d appears twice", ErrValidation, idx)
		}
		seen[idx] = true
	}
	return nil
}
