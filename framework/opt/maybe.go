// Package opt provides an optional value type for fields that a request or response may omit.
package opt

import (
	"encoding/json"
	"fmt"
)

// Maybe is a value that may or may not be present.
type Maybe[V any] struct {
	defined bool
	value   V
}

// Some returns a Maybe that has a defined value.
func Some[V any](value V) Maybe[V] {
	return Maybe[V]{defined: true, value: value}
}

// None returns a Maybe with no value.
func None[V any]() Maybe[V] { return Maybe[V]{} }

// FromPtr returns Some(*ptr) if ptr is non-nil, or None otherwise.
func FromPtr[V any](ptr *V) Maybe[V] {
	if ptr == nil {
		return None[V]()
	}
	return Some(*ptr)
}

// IsDefined returns true if the Maybe has a value.
func (m Maybe[V]) IsDefined() bool { return m.defined }

// Value returns the value, or the zero value for the type if there is none.
func (m Maybe[V]) Value() V { return m.value }

// OrElse returns the value if any, or valueIfUndefined otherwise.
func (m Maybe[V]) OrElse(valueIfUndefined V) V {
	if m.defined {
		return m.value
	}
	return valueIfUndefined
}

// String returns the value's own String() if it has one, fmt's "%v" form otherwise, or "[none]".
func (m Maybe[V]) String() string {
	if !m.defined {
		return "[none]"
	}
	if s, ok := interface{}(m.value).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", m.value)
}

// MarshalJSON produces the normal JSON encoding of the value, or null if there is none.
func (m Maybe[V]) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON sets the Maybe to None for a JSON null, or to Some(value) otherwise.
func (m *Maybe[V]) UnmarshalJSON(data []byte) error {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe == nil {
		*m = None[V]()
		return nil
	}
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*m = Some(value)
	return nil
}
