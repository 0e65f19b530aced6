package tick

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

type watcher interface {
	snapshot()
	changed() bool
	value() any
}

type valueWatch[T comparable] struct {
	ptr      *T
	baseline T
}

func newValueWatch[T comparable](ptr *T) *valueWatch[T] {
	return &valueWatch[T]{ptr: ptr, baseline: *ptr}
}

func (w *valueWatch[T]) snapshot()     { w.baseline = *w.ptr }
func (w *valueWatch[T]) changed() bool { return *w.ptr != w.baseline }
func (w *valueWatch[T]) value() any    { return *w.ptr }

type pointerWatch[T any] struct {
	ptr      **T
	baseline *T
}

func newPointerWatch[T any](ptr **T) *pointerWatch[T] {
	return &pointerWatch[T]{ptr: ptr, baseline: *ptr}
}

func (w *pointerWatch[T]) snapshot()     { w.baseline = *w.ptr }
func (w *pointerWatch[T]) changed() bool { return *w.ptr != w.baseline }
func (w *pointerWatch[T]) value() any    { return *w.ptr }

// bytesWatch keeps its own copy of the buffer.
type bytesWatch struct {
	ptr      *[]byte
	baseline []byte
}

func newBytesWatch(ptr *[]byte) *bytesWatch {
	w := &bytesWatch{ptr: ptr}
	w.snapshot()
	return w
}

func (w *bytesWatch) snapshot()     { w.baseline = append(w.baseline[:0], *w.ptr...) }
func (w *bytesWatch) changed() bool { return !bytes.Equal(*w.ptr, w.baseline) }
func (w *bytesWatch) value() any    { return *w.ptr }

// digestWatch keeps only the length and digest of the buffer.
type digestWatch struct {
	ptr    *[]byte
	length int
	digest uint64
}

func newDigestWatch(ptr *[]byte) *digestWatch {
	w := &digestWatch{ptr: ptr}
	w.snapshot()
	return w
}

func (w *digestWatch) snapshot() {
	w.length = len(*w.ptr)
	w.digest = xxhash.Sum64(*w.ptr)
}

func (w *digestWatch) changed() bool {
	cur := *w.ptr
	return len(cur) != w.length || xxhash.Sum64(cur) != w.digest
}

func (w *digestWatch) value() any { return *w.ptr }
