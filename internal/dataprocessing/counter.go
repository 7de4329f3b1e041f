package dataprocessing

import (
	"slices"

	"bikeshare/pkg/contracts/domain"
)

// Counter tallies values and remembers the order in which each was first
// seen. Ties are always resolved by that order, never by map iteration.
type Counter[K comparable] struct {
	counts map[K]int
	order  []K
}

// Entry is one counted value.
type Entry[K comparable] struct {
	Value K
	Count int
}

// NewCounter returns an empty counter.
func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Add counts one occurrence of v.
func (c *Counter[K]) Add(v K) {
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// Count returns how often v was added.
func (c *Counter[K]) Count(v K) int {
	return c.counts[v]
}

// Len returns the number of distinct values.
func (c *Counter[K]) Len() int {
	return len(c.order)
}

// Mode returns the most frequent value. Among values tied for the highest
// count the one seen first wins. The result is invalid for an empty counter.
func (c *Counter[K]) Mode() domain.Mode[K] {
	var m domain.Mode[K]
	for _, v := range c.order {
		if n := c.counts[v]; n > m.Count {
			m = domain.Mode[K]{Value: v, Count: n, Valid: true}
		}
	}
	return m
}

// Ranked returns every value by descending count, ties in first-seen order.
func (c *Counter[K]) Ranked() []Entry[K] {
	out := make([]Entry[K], len(c.order))
	for i, v := range c.order {
		out[i] = Entry[K]{Value: v, Count: c.counts[v]}
	}
	slices.SortStableFunc(out, func(a, b Entry[K]) int {
		return b.Count - a.Count
	})
	return out
}
