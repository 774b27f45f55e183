package optimistic

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Move returns a copy of items with the element at from relocated to index to.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "move %d -> %d of %d", from, to, len(items))
	}
	result := make([]T, 0, len(items))
	result = append(result, items[:from]...)
	result = append(result, items[from+1:]...)
	moved := items[from]
	result = append(result[:to], append([]T{moved}, result[to:]...)...)
	return result, nil
}

// PersistError carries the pre-mutation list a caller must restore.
type PersistError[T any] struct {
	Snapshot []T
	Err      error
}

func (e *PersistError[T]) Error() string {
	return fmt.Sprintf("persist failed, rolled back: %v", e.Err)
}

func (e *PersistError[T]) Unwrap() error {
	return e.Err
}

// Commit wraps a persistence failure together with the previous list.
func Commit[T any](previous []T, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistError[T]
	if errors.As(err, &pe) {
		return err
	}
	snapshot := make([]T, len(previous))
	copy(snapshot, previous)
	return &PersistError[T]{Snapshot: snapshot, Err: err}
}

// View is a locally held list updated before the backing store confirms.
// It keeps the confirmed list and the changes still in flight; the shown
// list is the confirmed one with those changes replayed in order.
type View[T any] struct {
	mu        sync.Mutex
	confirmed []T
	pending   []*step[T]
	items     []T
}

type step[T any] struct {
	change func(current []T) ([]T, error)
	done   bool
}

func NewView[T any](items []T) *View[T] {
	v := &View[T]{}
	v.Replace(items)
	return v
}

func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clone(v.items)
}

// Replace sets an authoritative list. Changes still in flight are forgotten,
// their completion no longer touches the view.
func (v *View[T]) Replace(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirmed = clone(items)
	v.items = clone(items)
	v.pending = nil
}

// Confirm applies a change the store already holds. Changes in flight stay
// on top of it.
func (v *View[T]) Confirm(change func(current []T) ([]T, error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	next, err := change(clone(v.confirmed))
	if err != nil {
		return err
	}
	v.confirmed = next
	v.items = v.replay()
	return nil
}

// Apply shows change immediately and then runs persist. On failure only this
// change is taken back: the confirmed list is shown with the other changes
// replayed over it.
// change gets its own copy of the list and may modify it. It is called again
// on replay, so it must depend on its input and captured values only.
func (v *View[T]) Apply(
	ctx context.Context,
	change func(current []T) ([]T, error),
	persist func(ctx context.Context, tentative, previous []T) error,
) error {
	v.mu.Lock()
	previous := clone(v.items)
	tentative, err := change(clone(v.items))
	if err != nil {
		v.mu.Unlock()
		return err
	}
	st := &step[T]{change: change}
	v.pending = append(v.pending, st)
	v.items = clone(tentative)
	v.mu.Unlock()

	err = persist(ctx, tentative, previous)

	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.indexOf(st)
	if idx < 0 {
		// replaced while persisting
		return Commit(previous, err)
	}
	if err != nil {
		v.pending = append(v.pending[:idx], v.pending[idx+1:]...)
		v.fold()
		v.items = v.replay()
		return Commit(previous, err)
	}
	st.done = true
	v.fold()
	return nil
}

// fold moves the leading confirmed changes into the confirmed list.
func (v *View[T]) fold() {
	for len(v.pending) > 0 && v.pending[0].done {
		if next, err := v.pending[0].change(clone(v.confirmed)); err == nil {
			v.confirmed = next
		}
		v.pending = v.pending[1:]
	}
}

func (v *View[T]) indexOf(st *step[T]) int {
	for idx, item := range v.pending {
		if item == st {
			return idx
		}
	}
	return -1
}

// replay skips changes that no longer apply to the confirmed list.
func (v *View[T]) replay() []T {
	items := clone(v.confirmed)
	for _, st := range v.pending {
		if next, err := st.change(clone(items)); err == nil {
			items = next
		}
	}
	return items
}

func clone[T any](items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	return result
}
