package parser

import (
	"container/heap"
	"context"
	"io"
)

// MergedSource combines multiple LineSources into a single stream ordered
// by raw timestamp text (smallest first). Timestamps are compared as
// strings, which orders ISO 8601 and other big-endian formats
// chronologically. Malformed records have no timestamp and are emitted as
// soon as they reach the front of their source.
type MergedSource struct {
	sources []LineSource
	heap    *recordHeap
	started bool
	err     error // refill failure, reported on the following call
}

// NewMergedSource creates a LineSource that merges sources by timestamp.
func NewMergedSource(sources ...LineSource) *MergedSource {
	return &MergedSource{
		sources: sources,
		heap:    &recordHeap{},
	}
}

// Next returns the next record in timestamp order across all sources.
// Returns io.EOF when all sources are exhausted.
func (m *MergedSource) Next(ctx context.Context) (*Record, error) {
	if !m.started {
		m.started = true
		if err := m.initHeap(ctx); err != nil {
			return nil, err
		}
	}

	if m.err != nil {
		return nil, m.err
	}

	if m.heap.Len() == 0 {
		return nil, io.EOF
	}

	item := heap.Pop(m.heap).(*heapItem)

	// Refill from the same source. The popped record is still returned
	// when that fails.
	next, err := m.sources[item.sourceIdx].Next(ctx)
	switch {
	case err == nil:
		heap.Push(m.heap, &heapItem{record: next, sourceIdx: item.sourceIdx})
	case err != io.EOF:
		m.err = err
	}

	return item.record, nil
}

// initHeap reads the first record from each source.
func (m *MergedSource) initHeap(ctx context.Context) error {
	heap.Init(m.heap)

	for i, src := range m.sources {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			continue // Empty source
		}
		if err != nil {
			return err
		}

		heap.Push(m.heap, &heapItem{record: rec, sourceIdx: i})
	}

	return nil
}

// Close releases all source resources.
func (m *MergedSource) Close() error {
	var firstErr error
	for _, src := range m.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type heapItem struct {
	record    *Record
	sourceIdx int
}

func (i *heapItem) key() string {
	if i.record.Entry == nil {
		return ""
	}
	return i.record.Entry.Timestamp
}

// recordHeap implements heap.Interface for timestamp-ordered merging.
type recordHeap []*heapItem

func (h recordHeap) Len() int { return len(h) }

func (h recordHeap) Less(i, j int) bool {
	ki, kj := h[i].key(), h[j].key()
	if ki != kj {
		return ki < kj
	}
	return h[i].sourceIdx < h[j].sourceIdx
}

func (h recordHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x any) {
	*h = append(*h, x.(*heapItem))
}

func (h *recordHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
