package shred

import "reflect"

// ResourceID identifies one logical resource owned by a World. Identity is
// the resource's Go type plus an optional name, so multiple instances of
// the same underlying type can be registered as distinct resources.
//
// ResourceID is comparable and usable as a map key.
type ResourceID struct {
	typ  reflect.Type
	name string
}

// ID returns the ResourceID for the resource type T.
func ID[T any]() ResourceID {
	return ResourceID{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// NamedID returns a ResourceID for T disambiguated by name. NamedID with an
// empty name is equivalent to ID.
func NamedID[T any](name string) ResourceID {
	return ResourceID{typ: reflect.TypeOf((*T)(nil)).Elem(), name: name}
}

// IDOf returns the ResourceID for a concrete value's type. Pointer values
// identify the pointed-to type, matching ID[T] for a stored *T.
func IDOf(value any) ResourceID {
	t := reflect.TypeOf(value)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return ResourceID{typ: t}
}

// Type returns the resource's Go type.
func (id ResourceID) Type() reflect.Type { return id.typ }

// Name returns the disambiguating name, or "" for the unnamed instance.
func (id ResourceID) Name() string { return id.name }

// IsZero reports whether the id identifies no resource.
func (id ResourceID) IsZero() bool { return id.typ == nil }

// String renders the id for logs and error messages.
func (id ResourceID) String() string {
	if id.typ == nil {
		return "<none>"
	}
	if id.name == "" {
		return id.typ.String()
	}
	return id.typ.String() + "#" + id.name
}
