// Package input holds the owner/repository fields shared by every operation.
package input

import (
	"sync"

	"github.com/commitfit/pkg/models"
)

// Binding produces a snapshot of the current field values.
type Binding interface {
	Read() models.RepoRef
}

// Fields is the pair of free-text inputs. Surfaces write to it; controllers only read.
type Fields struct {
	mu    sync.RWMutex
	owner string
	repo  string
}

// NewFields creates the input pair with initial values.
func NewFields(owner, repo string) *Fields {
	return &Fields{owner: owner, repo: repo}
}

// SetOwner replaces the owner field.
func (f *Fields) SetOwner(owner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owner = owner
}

// SetRepo replaces the repository field.
func (f *Fields) SetRepo(repo string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repo = repo
}

// Set replaces both fields at once.
func (f *Fields) Set(ref models.RepoRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owner = ref.Owner
	f.repo = ref.Repo
}

// Read returns the values at the moment of the call. Later edits do not
// affect a snapshot that was already taken.
func (f *Fields) Read() models.RepoRef {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return models.RepoRef{Owner: f.owner, Repo: f.repo}
}

// Static is a Binding with fixed values, used by the terminal console.
type Static models.RepoRef

// Read returns the fixed values.
func (s Static) Read() models.RepoRef {
	return models.RepoRef(s)
}
