// Package externalfiles remembers, per project, the document files the host
// must enumerate even though ordinary resolution never reaches them.
package externalfiles

import (
	"sync"

	"github.com/LegacyCodeHQ/dynpath/sfc"
)

// Registry maps a project identity (its name) to its document files.
type Registry struct {
	mu    sync.RWMutex
	files map[string][]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string][]string)}
}

// Register records files for project, replacing any earlier registration.
func (r *Registry) Register(project string, files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[project] = append([]string(nil), files...)
}

// List returns the files registered for project, or an empty slice.
func (r *Registry) List(project string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.files[project]...)
}

// Forget drops a project, typically when the host disposes it.
func (r *Registry) Forget(project string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, project)
}

// Documents filters fileNames down to documents, keeping their order.
func Documents(fileNames []string) []string {
	var documents []string
	for _, name := range fileNames {
		if sfc.IsDocument(name) {
			documents = append(documents, name)
		}
	}
	return documents
}
