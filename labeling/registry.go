package labeling

import (
	"fmt"
	"iter"
)

// Registry is the fixed, ordered set of labeling functions.
// Position j in the registry is column j of every label matrix built from it.
type Registry struct {
	lfs    []LabelingFunction
	byName map[string]int
}

// NewRegistry validates and freezes lfs.
func NewRegistry(lfs ...LabelingFunction) (*Registry, error) {
	r := &Registry{
		lfs:    make([]LabelingFunction, len(lfs)),
		byName: make(map[string]int, len(lfs)),
	}
	copy(r.lfs, lfs)

	for j, lf := range r.lfs {
		if lf.name == "" {
			return nil, fmt.Errorf("%w: position %d", ErrEmptyName, j)
		}
		if lf.fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilFunc, lf.name)
		}
		if _, dup := r.byName[lf.name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, lf.name)
		}
		r.byName[lf.name] = j
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(lfs ...LabelingFunction) *Registry {
	r, err := NewRegistry(lfs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of functions.
func (r *Registry) Len() int { return len(r.lfs) }

// At returns the function at column j.
func (r *Registry) At(j int) LabelingFunction { return r.lfs[j] }

// Index returns the column of the named function.
func (r *Registry) Index(name string) (int, bool) {
	j, ok := r.byName[name]
	return j, ok
}

// Names returns function names in column order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.lfs))
	for j, lf := range r.lfs {
		names[j] = lf.name
	}
	return names
}

// All iterates functions in column order.
func (r *Registry) All() iter.Seq2[int, LabelingFunction] {
	return func(yield func(int, LabelingFunction) bool) {
		for j, lf := range r.lfs {
			if !yield(j, lf) {
				return
			}
		}
	}
}
