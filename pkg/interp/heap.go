package interp

import (
	"github.com/goril-lang/goril/pkg/bril"
)

// allocation is one heap region: a run of cells plus a liveness flag.
// Freed allocations stay in the arena with live=false so that a stale
// pointer is detected instead of silently reusing the identity.
type allocation struct {
	cells []Value
	elem  *bril.Type
	live  bool
}

// Heap is the interpreter's explicit memory. Allocation identities come
// from a monotonically increasing counter and are never reused, which
// makes use-after-free and double-free pure data lookups. A Heap belongs
// to exactly one run.
type Heap struct {
	allocs map[int64]*allocation
	next   int64
}

// NewHeap creates an empty heap. Identities start at 1; the zero
// identity is reserved so a zero Pointer is always invalid.
func NewHeap() *Heap {
	return &Heap{allocs: make(map[int64]*allocation), next: 1}
}

// Alloc creates a live allocation of n cells of type elem and returns a
// pointer to its first cell. A negative n is a runtime error.
func (h *Heap) Alloc(n int64, elem *bril.Type) (Pointer, error) {
	if n < 0 {
		return Pointer{}, NewRuntimeError(ErrorNegativeAlloc, "cannot allocate %d cells", n)
	}
	id := h.next
	h.next++
	cells := make([]Value, n)
	for i := range cells {
		cells[i] = zeroValue(elem)
	}
	h.allocs[id] = &allocation{cells: cells, elem: elem, live: true}
	return Pointer{ID: id, Type: elem, Offset: 0}, nil
}

// Free marks the allocation behind p dead. Freeing an unknown base or an
// already-dead one is a runtime error.
func (h *Heap) Free(p Pointer) error {
	a, ok := h.allocs[p.ID]
	if !ok {
		return NewRuntimeError(ErrorInvalidFree, "free of pointer into unallocated memory")
	}
	if !a.live {
		return NewRuntimeError(ErrorDoubleFree, "allocation already freed")
	}
	a.live = false
	return nil
}

// Load reads the cell p points at. The allocation must be live and the
// offset inside [0, length).
func (h *Heap) Load(p Pointer) (Value, error) {
	a, err := h.access(p)
	if err != nil {
		return Value{}, err
	}
	return a.cells[p.Offset], nil
}

// Store writes v into the cell p points at, under the same rules as Load.
func (h *Heap) Store(p Pointer, v Value) error {
	a, err := h.access(p)
	if err != nil {
		return err
	}
	a.cells[p.Offset] = v
	return nil
}

// access validates liveness and bounds for a dereference.
func (h *Heap) access(p Pointer) (*allocation, error) {
	a, ok := h.allocs[p.ID]
	if !ok || !a.live {
		return nil, NewRuntimeError(ErrorUseAfterFree, "access through dead pointer")
	}
	if p.Offset < 0 || p.Offset >= int64(len(a.cells)) {
		return nil, NewRuntimeError(ErrorOutOfBounds, "offset %d outside allocation of length %d", p.Offset, len(a.cells))
	}
	return a, nil
}

// Live reports whether the allocation behind p is still live. Used by
// tests; execution itself goes through Load/Store/Free.
func (h *Heap) Live(p Pointer) bool {
	a, ok := h.allocs[p.ID]
	return ok && a.live
}
