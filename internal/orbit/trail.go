package orbit

import "gonum.org/v1/gonum/spatial/r2"

// Trail is a fixed-capacity ring buffer of past positions.
// Index 0 is the oldest retained sample.
type Trail struct {
	buf  []r2.Vec
	head int // index of the oldest sample
	n    int
}

// NewTrail returns an empty trail holding at most capacity samples.
// A capacity below 1 is raised to 1.
func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{buf: make([]r2.Vec, capacity)}
}

// Push appends p, evicting the oldest sample when the trail is full.
func (t *Trail) Push(p r2.Vec) {
	if t.n < len(t.buf) {
		t.buf[(t.head+t.n)%len(t.buf)] = p
		t.n++
		return
	}
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.buf) }

// At returns the i-th retained sample in chronological order.
// It panics if i is out of range, like a slice index.
func (t *Trail) At(i int) r2.Vec {
	if i < 0 || i >= t.n {
		panic("orbit: trail index out of range")
	}
	return t.buf[(t.head+i)%len(t.buf)]
}

// Oldest returns the oldest retained sample, or false if the trail is empty.
func (t *Trail) Oldest() (r2.Vec, bool) {
	if t.n == 0 {
		return r2.Vec{}, false
	}
	return t.buf[t.head], true
}

// Newest returns the most recent sample, or false if the trail is empty.
func (t *Trail) Newest() (r2.Vec, bool) {
	if t.n == 0 {
		return r2.Vec{}, false
	}
	return t.At(t.n - 1), true
}

// Points returns a chronological copy of the retained samples.
func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, t.n)
	for i := range out {
		out[i] = t.buf[(t.head+i)%len(t.buf)]
	}
	return out
}

// Each calls fn for every retained sample, oldest first, without copying.
func (t *Trail) Each(fn func(i int, p r2.Vec)) {
	for i := 0; i < t.n; i++ {
		fn(i, t.buf[(t.head+i)%len(t.buf)])
	}
}

// Reset drops every sample and keeps the capacity.
func (t *Trail) Reset() {
	t.head = 0
	t.n = 0
}
