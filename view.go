package shred

import (
	"github.com/adeschamps/shred/errors"
)

// View is a system's window onto the resources its stage has guarded. The
// dispatcher constructs one View per system per stage, restricted to the
// system's declared Access; a system can only reach resources it declared,
// and only mutate ones it declared written.
//
// Views are stage-scoped. A system must not retain its View past Run.
type View struct {
	values map[ResourceID]any
	access Access
}

// NewView assembles a View over already-guarded resource values. It is
// exported for the dispatcher and for tests; application code receives
// Views, it does not build them.
func NewView(values map[ResourceID]any, access Access) *View {
	return &View{values: values, access: access}
}

// Access returns the declared access the view enforces.
func (v *View) Access() Access { return v.access }

// Get returns the resource for id. The id must be in the view's declared
// read or write set; anything else is an access violation.
func (v *View) Get(id ResourceID) (any, error) {
	if !v.access.Touches(id) {
		return nil, errors.AccessViolation(errors.PhaseDispatch, id.String(), "resource not declared by system")
	}
	val, ok := v.values[id]
	if !ok {
		return nil, errors.NotPresent(errors.PhaseDispatch, id.String())
	}
	return val, nil
}

// GetMut returns the resource for id for mutation. The id must be in the
// view's declared write set.
func (v *View) GetMut(id ResourceID) (any, error) {
	if !v.access.WritesID(id) {
		return nil, errors.AccessViolation(errors.PhaseDispatch, id.String(), "resource not declared written by system")
	}
	val, ok := v.values[id]
	if !ok {
		return nil, errors.NotPresent(errors.PhaseDispatch, id.String())
	}
	return val, nil
}

// Get returns the typed resource T from the view, which must have declared
// it read or written.
func Get[T any](v *View) (*T, error) {
	return GetNamed[T](v, "")
}

// GetNamed is Get for a name-disambiguated resource instance.
func GetNamed[T any](v *View, name string) (*T, error) {
	id := NamedID[T](name)
	val, err := v.Get(id)
	if err != nil {
		return nil, err
	}
	return assertValue[T](id, val)
}

// GetMut returns the typed resource T for mutation; the view must have
// declared it written.
func GetMut[T any](v *View) (*T, error) {
	return GetMutNamed[T](v, "")
}

// GetMutNamed is GetMut for a name-disambiguated resource instance.
func GetMutNamed[T any](v *View, name string) (*T, error) {
	id := NamedID[T](name)
	val, err := v.GetMut(id)
	if err != nil {
		return nil, err
	}
	return assertValue[T](id, val)
}

func assertValue[T any](id ResourceID, val any) (*T, error) {
	typed, ok := val.(*T)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseDispatch, id.String(), val)
	}
	return typed, nil
}
