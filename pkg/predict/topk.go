package predict

import "container/heap"

type scored struct {
	WordProb
	index int
}

// worse reports whether a ranks below b: lower probability, or equal
// probability and later in vocabulary order.
func worse(a, b scored) bool {
	if a.Prob != b.Prob {
		return a.Prob < b.Prob
	}
	return a.index > b.index
}

// minHeap keeps the worst retained candidate at the root.
type minHeap []scored

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) {
	*h = append(*h, x.(scored))
}

func (h *minHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// topK is a bounded selection of the k best candidates.
type topK struct {
	k int
	h minHeap
}

func newTopK(k int) *topK {
	return &topK{k: k, h: make(minHeap, 0, k)}
}

func (t *topK) offer(s scored) {
	if t.k <= 0 {
		return
	}
	if len(t.h) < t.k {
		heap.Push(&t.h, s)
		return
	}
	if worse(t.h[0], s) {
		t.h[0] = s
		heap.Fix(&t.h, 0)
	}
}

// ranked drains the selection, best first.
func (t *topK) ranked() []WordProb {
	out := make([]WordProb, len(t.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(scored).WordProb
	}
	return out
}
