// Package region provides addressable display areas for operation controllers.
package region

import (
	"sort"
	"sync"

	"github.com/commitfit/internal/render"
	"github.com/commitfit/pkg/models"
)

// Layout names the status and result region of one operation.
type Layout struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

// DefaultLayout returns the region ids used by the console page.
func DefaultLayout(kind models.OperationKind) Layout {
	switch kind {
	case models.OperationGather:
		return Layout{Status: "status", Result: "download-links"}
	case models.OperationFitBass:
		return Layout{Status: "bass-model-status", Result: "bass-model-images"}
	case models.OperationFitInnovation:
		return Layout{Status: "innovation-model-status", Result: "innovation-model-images"}
	}
	return Layout{Status: string(kind) + "-status", Result: string(kind) + "-result"}
}

// ChangeFunc is called after a region changes, with the new content.
type ChangeFunc func(id string, f render.Fragment)

// Board holds every region of a console and notifies a listener on change.
type Board struct {
	mu       sync.RWMutex
	regions  map[string]render.Fragment
	onChange ChangeFunc
}

// NewBoard creates an empty board. onChange may be nil.
func NewBoard(onChange ChangeFunc) *Board {
	return &Board{
		regions:  make(map[string]render.Fragment),
		onChange: onChange,
	}
}

// Region returns a handle to the region with the given id, creating it empty.
func (b *Board) Region(id string) *Region {
	b.mu.Lock()
	if _, ok := b.regions[id]; !ok {
		b.regions[id] = render.Fragment{}
	}
	b.mu.Unlock()
	return &Region{id: id, board: b}
}

// Get returns the current content of a region.
func (b *Board) Get(id string) render.Fragment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.regions[id]
}

// IDs returns the known region ids, sorted.
func (b *Board) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.regions))
	for id := range b.regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot copies the content of every region.
func (b *Board) Snapshot() map[string]render.Fragment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]render.Fragment, len(b.regions))
	for id, f := range b.regions {
		out[id] = f
	}
	return out
}

func (b *Board) set(id string, f render.Fragment) {
	b.mu.Lock()
	b.regions[id] = f
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(id, f)
	}
}

// Region is one addressable area of a Board.
type Region struct {
	id    string
	board *Board
}

// Clear empties the region. Clearing an empty region is a no-op for the listener.
func (r *Region) Clear() {
	if r.board.Get(r.id).Empty() {
		return
	}
	r.board.set(r.id, render.Fragment{})
}

// Paint replaces the region content.
func (r *Region) Paint(f render.Fragment) {
	r.board.set(r.id, f)
}

// Content returns what the region currently shows.
func (r *Region) Content() render.Fragment {
	return r.board.Get(r.id)
}
