package queue

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shah-jinay/image-tool.io/internal/entities"
	"github.com/shah-jinay/image-tool.io/internal/preview"
)

const genericLabel = "FILE"

// Input is one raw file-like value handed to the queue: picked, dropped,
// pasted, fetched by URL or generated as a sample.
type Input struct {
	Name         string
	DeclaredType string
	Data         []byte
}

// Manager owns the ordered conversion queue. It is the single piece of
// mutable shared state: ingestion, removal and clear are applied atomically
// under one lock so the renderer never observes a partial mutation.
type Manager struct {
	mu      sync.Mutex
	entries []entities.QueueEntry

	renderer *preview.Renderer
	client   *http.Client
}

func NewManager(renderer *preview.Renderer, client *http.Client) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	return &Manager{renderer: renderer, client: client}
}

// Ingest appends one entry per non-nil input, preserving input order.
// Per-file preview decoding runs independently; results are merged into the
// queue with a single append, so overlapping batches interleave whole, never
// partially. A file that fails to decode still enters the queue, with a nil
// preview and nil dimensions.
func (m *Manager) Ingest(ctx context.Context, inputs []Input) []entities.QueueEntry {
	kept := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if in.Data == nil {
			continue
		}
		kept = append(kept, in)
	}
	if len(kept) == 0 {
		return nil
	}

	batch := make([]entities.QueueEntry, len(kept))
	var wg sync.WaitGroup
	for i, in := range kept {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			batch[i] = m.buildEntry(in)
		}(i, in)
	}
	wg.Wait()

	m.mu.Lock()
	m.entries = append(m.entries, batch...)
	m.mu.Unlock()

	return batch
}

func (m *Manager) buildEntry(in Input) entities.QueueEntry {
	e := entities.QueueEntry{
		Name:  in.Name,
		Size:  int64(len(in.Data)),
		Data:  in.Data,
		Label: placeholderLabel(in.Name, in.DeclaredType),
	}

	h, w, ht, err := m.renderer.Render(in.Data)
	if err != nil {
		// Recovered locally: the entry stays queued and renders as a
		// type-based placeholder.
		log.Printf("[queue] preview decode failed for %q: %v", in.Name, err)
		return e
	}

	e.Preview = h
	e.Dims = &entities.Dimensions{Width: w, Height: ht}
	return e
}

// Remove releases the preview handle at index i (if any) and splices the
// entry out. A stale index is a no-op: the entry is snapshotted under the
// lock before mutation, so a double removal never double-releases.
func (m *Manager) Remove(i int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.entries) {
		return false
	}

	e := m.entries[i]
	e.Preview.Release()

	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return true
}

// Clear releases every held preview handle and empties the queue,
// returning the number of entries dropped.
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		e.Preview.Release()
	}
	n := len(m.entries)
	m.entries = nil
	return n
}

// Entries returns a snapshot of the queue in insertion order.
func (m *Manager) Entries() []entities.QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entities.QueueEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Entry returns the entry at index i, if present.
func (m *Manager) Entry(i int) (entities.QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.entries) {
		return entities.QueueEntry{}, false
	}
	return m.entries[i], true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// placeholderLabel picks the text for the no-preview fallback: the file
// extension when there is one, else an extension derived from the declared
// media type, else a generic label.
func placeholderLabel(name, declaredType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		return strings.ToUpper(ext)
	}
	if declaredType != "" {
		if mt := mimetype.Lookup(declaredType); mt != nil {
			if ext := strings.TrimPrefix(mt.Extension(), "."); ext != "" {
				return strings.ToUpper(ext)
			}
		}
	}
	return genericLabel
}
