package preview

import "sync"

// Handle is a revocable reference to displayable image bytes. It stands in
// for a browser object URL: the UI renders from it without re-reading the
// source file, and it must be released exactly once when its owner lets go.
// The handle pointer outlives the queue's lock (entry snapshots share it),
// so reads and release are synchronized here.
type Handle struct {
	id          uint64
	contentType string
	tracker     *Tracker

	mu       sync.Mutex
	data     []byte
	released bool
}

// Bytes returns the displayable bytes. Nil after release.
func (h *Handle) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return nil
	}
	return h.data
}

func (h *Handle) ContentType() string { return h.contentType }

// Release gives the bytes back to the tracker. Releasing an already
// released handle is a no-op, but owners should not rely on that; the
// queue snapshots entries before mutation so each handle is released
// exactly once.
func (h *Handle) Release() {
	if h == nil {
		return
	}

	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	h.data = nil
	h.mu.Unlock()

	h.tracker.release(h.id)
}

// Tracker hands out preview handles and counts acquisitions and releases,
// so tests can assert the exactly-once release invariant without a browser.
type Tracker struct {
	mu       sync.Mutex
	nextID   uint64
	live     map[uint64]struct{}
	acquired int
	released int
}

func NewTracker() *Tracker {
	return &Tracker{live: make(map[uint64]struct{})}
}

// Acquire wraps displayable bytes in a tracked handle.
func (t *Tracker) Acquire(data []byte, contentType string) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.acquired++
	t.live[t.nextID] = struct{}{}

	return &Handle{
		id:          t.nextID,
		data:        data,
		contentType: contentType,
		tracker:     t,
	}
}

func (t *Tracker) release(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[id]; !ok {
		return
	}
	delete(t.live, id)
	t.released++
}

// Live reports the number of handles acquired but not yet released.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Released reports the total number of releases so far.
func (t *Tracker) Released() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
