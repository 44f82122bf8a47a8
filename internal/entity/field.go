// Package entity holds the typed views over Dgraph results for each GraphQL
// object type, together with the rules mapping their fields onto DQL.
//
// A view is decoded once from the JSON block Dgraph returned for a node. Every
// field remembers whether the key was present and whether its value had the
// expected shape, so an accessor can tell an absent relation (an empty
// collection, or null for optional ones) from a malformed one. Accessors
// never return partial data: any mismatch is logged and reported as
// ErrUnresolvable.
package entity

import (
	"bytes"
	"encoding/json"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrUnresolvable is returned by every accessor whose stored value is missing
// or does not have the type the field requires. Details go to the server log.
var ErrUnresolvable = errors.New("unable to resolve field")

// View is a decoded entity the executor resolves fields against.
type View interface {
	// Resolve returns the value of field. args are the coerced GraphQL
	// arguments of the field.
	Resolve(field string, args map[string]any) (any, error)
}

// scalar is a value predicate. Any JSON value that does not decode into T
// exactly, null included, leaves it invalid.
type scalar[T any] struct {
	value   T
	present bool
	valid   bool
	raw     string
}

func (s *scalar[T]) UnmarshalJSON(b []byte) error {
	s.present = true
	s.raw = string(b)
	if isNull(b) {
		return nil
	}
	s.valid = json.Unmarshal(b, &s.value) == nil
	return nil
}

func (s scalar[T]) get(entity, field string) (T, error) {
	var zero T
	switch {
	case !s.present:
		glog.Errorf("%s.%s: missing from database result", entity, field)
		return zero, ErrUnresolvable
	case !s.valid:
		glog.Errorf("%s.%s: unexpected value %s", entity, field, s.raw)
		return zero, ErrUnresolvable
	}
	return s.value, nil
}

// one is a single related node. Dgraph returns edges as arrays, so a
// non-empty array is accepted and its first element used.
type one[T any] struct {
	value   *T
	present bool
	raw     string
}

func (o *one[T]) UnmarshalJSON(b []byte) error {
	o.present = true
	o.raw = string(b)
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(b, &elems); err != nil || len(elems) == 0 {
			return nil
		}
		b = elems[0]
	case '{':
	default:
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return nil
	}
	o.value = v
	return nil
}

// required returns the node, failing when it is absent or malformed.
func (o one[T]) required(entity, field string) (*T, error) {
	if !o.present {
		glog.Errorf("%s.%s: missing from database result", entity, field)
		return nil, ErrUnresolvable
	}
	if o.value == nil {
		glog.Errorf("%s.%s: expected a node, got %s", entity, field, o.raw)
		return nil, ErrUnresolvable
	}
	return o.value, nil
}

// optional returns nil when the edge is absent and fails only when it is
// malformed.
func (o one[T]) optional(entity, field string) (*T, error) {
	if !o.present {
		return nil, nil
	}
	return o.required(entity, field)
}

// many is a collection of related nodes. Dgraph omits edges with no targets,
// so absence means empty.
type many[T any] struct {
	values  []T
	present bool
	valid   bool
	raw     string
}

func (m *many[T]) UnmarshalJSON(b []byte) error {
	m.present = true
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		m.raw = string(b)
		return nil
	}
	if err := json.Unmarshal(trimmed, &m.values); err != nil {
		m.raw = string(b)
		return nil
	}
	m.valid = true
	return nil
}

func (m many[T]) get(entity, field string) ([]*T, error) {
	if !m.present {
		return []*T{}, nil
	}
	if !m.valid {
		glog.Errorf("%s.%s: expected a list of nodes, got %s", entity, field, m.raw)
		return nil, ErrUnresolvable
	}
	out := make([]*T, len(m.values))
	for i := range m.values {
		out[i] = &m.values[i]
	}
	return out, nil
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// Decode decodes the JSON block of one node into a view of type T.
func Decode[T any](b []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return nil, errors.Wrapf(err, "decoding %T", v)
	}
	return v, nil
}

func decodeObject(entity string, b []byte, wire any) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.Errorf("%s: expected an object, got %.40q", entity, trimmed)
	}
	return json.Unmarshal(trimmed, wire)
}

func unknownField(entity, field string) error {
	glog.Errorf("%s.%s: not a field of the view", entity, field)
	return ErrUnresolvable
}
