// Package merge k-way merges several sorted delta-compressed varint
// streams into one strictly increasing sequence of Hilbert indices,
// using container/heap the way the reference implementation uses a
// binary heap of (value, stream) pairs. No third-party priority-queue
// library appears anywhere in the retrieved example pack, so this is
// the one component built directly on the standard library.
package merge

import (
	"container/heap"
	"errors"
	"fmt"
	"io"

	"github.com/graphcost/cost/internal/varint"
)

// ErrNonMonotonic is returned when a source stream's decoded sequence
// was not strictly increasing, which would otherwise silently corrupt
// the merged output's ordering.
var ErrNonMonotonic = errors.New("merge: source stream not strictly increasing")

type item struct {
	value  uint64
	stream int
}

type minHeap []item

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].value < h[j].value }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(item)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Merge reads every stream in streams to exhaustion, in non-decreasing
// order of decoded value, and calls sink once for every distinct value
// seen across all streams combined (a value equal to the previous one
// emitted from another stream is dropped — this is the same
// collapse-by-construction duplicate handling the delta-compressed
// format itself documents). A stream that repeats or decreases its own
// previous value fails the merge with ErrNonMonotonic.
func Merge(streams []*varint.Decoder, sink func(z uint64) error) error {
	h := make(minHeap, 0, len(streams))
	for i, s := range streams {
		v, err := s.Next()
		if err == io.EOF {
			continue
		}
		if err != nil {
			return fmt.Errorf("merge: stream %d: %w", i, err)
		}
		h = append(h, item{value: v, stream: i})
	}
	heap.Init(&h)

	first := true
	var prev uint64
	for h.Len() > 0 {
		it := heap.Pop(&h).(item)
		if first || it.value > prev {
			if err := sink(it.value); err != nil {
				return fmt.Errorf("merge: sink: %w", err)
			}
			prev = it.value
			first = false
		}
		next, err := streams[it.stream].Next()
		if err == io.EOF {
			continue
		}
		if err != nil {
			return fmt.Errorf("merge: stream %d: %w", it.stream, err)
		}
		if next <= it.value {
			return fmt.Errorf("merge: stream %d: value %d after %d: %w", it.stream, next, it.value, ErrNonMonotonic)
		}
		heap.Push(&h, item{value: next, stream: it.stream})
	}
	return nil
}
