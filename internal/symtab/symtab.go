// Package symtab provides the process-wide registry of named arrays.
// Arrays enter the table when an operation publishes its result and leave
// when a client deletes them; in between, the table serializes mutation
// by name.
package symtab

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/arrayd-io/arrayd/internal/array"
)

// ErrUndefinedSymbol is returned when a request names an array the table
// does not hold.
var ErrUndefinedSymbol = errors.New("undefined symbol")

// Table is a mutex-guarded name registry. Lookups take the read lock;
// Add, Delete, and Mutate take the write lock, which is what serializes
// compound assignments to one name.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*array.Array
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{entries: make(map[string]*array.Array)}
}

// Add registers a under a fresh server-assigned name and returns it.
func (t *Table) Add(a *array.Array) string {
	name := "id_" + uuid.NewString()
	t.mu.Lock()
	t.entries[name] = a
	t.mu.Unlock()
	return name
}

// AddNamed registers a under an explicit name, replacing any existing
// entry.
func (t *Table) AddNamed(name string, a *array.Array) {
	t.mu.Lock()
	t.entries[name] = a
	t.mu.Unlock()
}

// Lookup returns the array registered under name.
func (t *Table) Lookup(name string) (*array.Array, error) {
	t.mu.RLock()
	a, ok := t.entries[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedSymbol, name)
	}
	return a, nil
}

// Mutate runs f over the array registered under name while holding the
// write lock, giving f exclusive ownership of the element buffer for the
// duration. Used by the compound-assign commands.
func (t *Table) Mutate(name string, f func(a *array.Array) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.entries[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedSymbol, name)
	}
	return f(a)
}

// Delete removes the entry registered under name.
func (t *Table) Delete(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedSymbol, name)
	}
	delete(t.entries, name)
	return nil
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	t.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered arrays.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
