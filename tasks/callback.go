package tasks

import (
	"errors"
	"fmt"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
	"github.com/ramp-stack/rust-on-rails-sub000/storage"
)

// Callback is a deferred mutation of application state. Tasks produce
// callbacks; only the UI goroutine applies them, once per frame.
type Callback interface {
	Apply(state *storage.State) error
}

// ResourceCallback is implemented by callbacks that also need the UI-owned
// resource atlas, such as loading an image. It is applied before Apply.
type ResourceCallback interface {
	Callback
	ApplyResources(ctx *retained.Context) error
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(state *storage.State) error

// Apply calls f(state).
func (f CallbackFunc) Apply(state *storage.State) error { return f(state) }

// SetField stores a raw blob under Key.
type SetField struct {
	Key   string
	Value []byte
}

// Apply stores the blob.
func (c SetField) Apply(state *storage.State) error {
	state.SetBytes(c.Key, c.Value)
	return nil
}

// Store returns a callback that sets field T to v. Encoding happens on the
// calling goroutine, so a value that cannot be encoded fails the task instead
// of the frame.
func Store[T any](v T) (Callback, error) {
	b, err := storage.Encode(v)
	if err != nil {
		return nil, err
	}
	return SetField{Key: storage.KeyOf[T](), Value: b}, nil
}

// Modify returns a callback that replaces field T with fn(current).
func Modify[T any](fn func(T) T) Callback {
	return CallbackFunc(func(state *storage.State) error {
		return storage.Update(state, fn)
	})
}

// DeleteField removes Key.
type DeleteField struct {
	Key string
}

// Apply removes the key.
func (c DeleteField) Apply(state *storage.State) error {
	state.Delete(c.Key)
	return nil
}

// Batch applies callbacks in order, continuing past failures.
type Batch []Callback

// Apply applies every callback and joins their errors.
func (b Batch) Apply(state *storage.State) error {
	var errs []error
	for _, c := range b {
		if c == nil {
			continue
		}
		if err := c.Apply(state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ApplyResources forwards to members that need the atlas.
func (b Batch) ApplyResources(ctx *retained.Context) error {
	var errs []error
	for _, c := range b {
		if rc, ok := c.(ResourceCallback); ok {
			if err := rc.ApplyResources(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// LoadImage decodes image data into the atlas under Name on the UI
// goroutine. Background tasks fetch the bytes; only the UI goroutine touches
// the atlas.
type LoadImage struct {
	Name string
	Data []byte
}

// Apply does nothing; the work happens in ApplyResources.
func (LoadImage) Apply(*storage.State) error { return nil }

// ApplyResources decodes the image and binds it to Name.
func (c LoadImage) ApplyResources(ctx *retained.Context) error {
	if _, err := ctx.LoadNamedImage(c.Name, c.Data); err != nil {
		return fmt.Errorf("tasks: load image %q: %w", c.Name, err)
	}
	return nil
}
