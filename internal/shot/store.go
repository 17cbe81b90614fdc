package shot

import (
	"container/heap"
	"fmt"
)

// Kind tells which detector produced a boundary.
type Kind string

const (
	KindCut     Kind = "cut"
	KindGradual Kind = "gradual"
)

// Boundary is a detected transition in absolute frame numbers, both ends inclusive.
type Boundary struct {
	Start int  `json:"start" yaml:"start"`
	End   int  `json:"end" yaml:"end"`
	Kind  Kind `json:"kind" yaml:"kind"`
}

func (b Boundary) String() string {
	return fmt.Sprintf("%s %d-%d", b.Kind, b.Start, b.End)
}

// Store collects boundaries from both detectors and hands them back ordered by
// start frame. Duplicates and overlaps are kept. Boundaries sharing a start
// come back in insertion order. Not safe for concurrent use.
type Store struct {
	items boundaryHeap
	seq   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Push inserts b.
func (s *Store) Push(b Boundary) {
	heap.Push(&s.items, entry{Boundary: b, seq: s.seq})
	s.seq++
}

// Len returns the number of boundaries still held.
func (s *Store) Len() int {
	return s.items.Len()
}

// Pop removes and returns the boundary with the lowest start.
func (s *Store) Pop() (Boundary, bool) {
	if s.items.Len() == 0 {
		return Boundary{}, false
	}
	return heap.Pop(&s.items).(entry).Boundary, true
}

// Drain empties the store in ascending start order.
func (s *Store) Drain() []Boundary {
	out := make([]Boundary, 0, s.items.Len())
	for {
		b, ok := s.Pop()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

type entry struct {
	Boundary
	seq int
}

type boundaryHeap []entry

func (h boundaryHeap) Len() int { return len(h) }

func (h boundaryHeap) Less(i, j int) bool {
	if h[i].Start != h[j].Start {
		return h[i].Start < h[j].Start
	}
	return h[i].seq < h[j].seq
}

func (h boundaryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *boundaryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *boundaryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
