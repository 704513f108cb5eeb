package sink

import (
	"context"
	"sort"
	"sync"

	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

// MemorySink captures descriptors in emission order and keeps a view of the
// final page per path, where a later emission replaces an earlier one.
type MemorySink struct {
	mu     sync.Mutex
	pages  []pagegen.PageDescriptor
	byPath map[string]int
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{byPath: map[string]int{}}
}

// Emit implements pagegen.PageSink.
func (m *MemorySink) Emit(_ context.Context, page pagegen.PageDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byPath == nil {
		m.byPath = map[string]int{}
	}
	m.pages = append(m.pages, page)
	m.byPath[page.Path] = len(m.pages) - 1
	return nil
}

// Emitted returns every descriptor in emission order, including the ones that
// were later replaced.
func (m *MemorySink) Emitted() []pagegen.PageDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]pagegen.PageDescriptor, len(m.pages))
	copy(out, m.pages)
	return out
}

// Final returns the final descriptor of every path, sorted by path.
func (m *MemorySink) Final() []pagegen.PageDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.byPath))
	for p := range m.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]pagegen.PageDescriptor, len(paths))
	for i, p := range paths {
		out[i] = m.pages[m.byPath[p]]
	}
	return out
}
