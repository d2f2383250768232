package world

import (
	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/errors"
)

// Typed wrappers over the untyped World API. Resources are stored as *T
// and identified by shred.ID[T]; the dynamic type tag is checked on every
// retrieval.

// Put stores value as the unnamed resource of type T.
func Put[T any](w *World, value *T) error {
	return w.Insert(shred.ID[T](), value)
}

// PutNamed stores value as a name-disambiguated resource of type T.
func PutNamed[T any](w *World, name string, value *T) error {
	return w.Insert(shred.NamedID[T](name), value)
}

// Take removes and returns the resource of type T.
func Take[T any](w *World) (*T, error) {
	return TakeNamed[T](w, "")
}

// TakeNamed removes and returns a name-disambiguated resource of type T.
func TakeNamed[T any](w *World, name string) (*T, error) {
	id := shred.NamedID[T](name)
	value, err := w.Remove(id)
	if err != nil {
		return nil, err
	}
	typed, ok := value.(*T)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseRemove, id.String(), value)
	}
	return typed, nil
}

// Shared fetches the resource of type T under a shared guard.
func Shared[T any](w *World) (*T, *SharedGuard, error) {
	return SharedNamed[T](w, "")
}

// SharedNamed is Shared for a name-disambiguated instance.
func SharedNamed[T any](w *World, name string) (*T, *SharedGuard, error) {
	id := shred.NamedID[T](name)
	g, err := w.FetchShared(id)
	if err != nil {
		return nil, nil, err
	}
	typed, ok := g.Value().(*T)
	if !ok {
		g.Release()
		return nil, nil, errors.TypeMismatch(errors.PhaseFetch, id.String(), g.Value())
	}
	return typed, g, nil
}

// Exclusive fetches the resource of type T under an exclusive guard.
func Exclusive[T any](w *World) (*T, *ExclusiveGuard, error) {
	return ExclusiveNamed[T](w, "")
}

// ExclusiveNamed is Exclusive for a name-disambiguated instance.
func ExclusiveNamed[T any](w *World, name string) (*T, *ExclusiveGuard, error) {
	id := shred.NamedID[T](name)
	g, err := w.FetchExclusive(id)
	if err != nil {
		return nil, nil, err
	}
	typed, ok := g.Value().(*T)
	if !ok {
		g.Release()
		return nil, nil, errors.TypeMismatch(errors.PhaseFetch, id.String(), g.Value())
	}
	return typed, g, nil
}

// RegisterDefaultFor registers a lazy constructor for the resource of
// type T, invoked on first fetch if the resource is absent.
func RegisterDefaultFor[T any](w *World, ctor func() *T) {
	w.RegisterDefault(shred.ID[T](), func() any { return ctor() })
}
