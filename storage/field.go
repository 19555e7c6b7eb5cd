package storage

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
)

// Keyed lets a state field type choose its storage key. Types that do not
// implement it are stored under the snake_case form of their type name.
// Implement it whenever two field types share a name.
type Keyed interface {
	StateKey() string
}

// KeyOf returns the storage key of field type T.
func KeyOf[T any]() string {
	var zero T
	if k, ok := any(zero).(Keyed); ok {
		return k.StateKey()
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return strcase.ToSnake(name)
}

// defaultOf returns T's Default() when T (by value) defines one, else the
// zero value.
func defaultOf[T any]() T {
	var zero T
	if d, ok := any(zero).(interface{ Default() T }); ok {
		return d.Default()
	}
	return zero
}

// Get decodes field T from s. A missing key or a blob that does not decode
// yields T's default; a corrupt blob is logged, never returned as an error.
func Get[T any](s *State) T {
	key := KeyOf[T]()
	b, ok := s.Bytes(key)
	if !ok {
		return defaultOf[T]()
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		Logger().Warn("corrupt state field, using default", "key", key, "err", err)
		return defaultOf[T]()
	}
	return v
}

// Lookup is Get that also reports whether a stored value was decoded.
func Lookup[T any](s *State) (T, bool) {
	key := KeyOf[T]()
	b, ok := s.Bytes(key)
	if !ok {
		return defaultOf[T](), false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return defaultOf[T](), false
	}
	return v, true
}

// Set encodes v as field T.
func Set[T any](s *State, v T) error {
	b, err := Encode(v)
	if err != nil {
		return err
	}
	s.SetBytes(KeyOf[T](), b)
	return nil
}

// Update replaces field T with fn applied to its current value.
func Update[T any](s *State, fn func(T) T) error {
	return Set(s, fn(Get[T](s)))
}

// Remove deletes field T.
func Remove[T any](s *State) {
	s.Delete(KeyOf[T]())
}

// Encode serializes a field value.
func Encode[T any](v T) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("storage: encode %s: %w", KeyOf[T](), err)
	}
	return b, nil
}
