// Package arena implements the bump allocators owned by the lexer and the parser.
// Each arena hands out memory from a growable list of fixed-size slabs: allocations
// within a slab never move, and a slab itself is never reallocated once created, so
// every pointer handed out by Alloc stays valid until the whole arena is dropped.
// There is no per-allocation free; memory is reclaimed only in bulk, by letting the
// arena (and every slab it owns) become garbage.
package arena

import "github.com/pkg/errors"

// ErrExhausted is returned by Alloc once the arena has reached its configured slab
// limit. A limit of 0 means unbounded.
var ErrExhausted = errors.New("arena: exhausted")

const defaultSlabSize = 256

// Arena is a typed bump allocator for values of T.
type Arena[T any] struct {
	slabSize int
	maxSlabs int
	slabs    []*slab[T]
}

type slab[T any] struct {
	items []T
	used  int
}

// New creates an Arena with the given per-slab capacity and an optional maximum
// number of slabs (0 means unbounded). A non-positive slabSize falls back to a
// sane default.
func New[T any](slabSize, maxSlabs int) *Arena[T] {
	if slabSize <= 0 {
		slabSize = defaultSlabSize
	}

	return &Arena[T]{slabSize: slabSize, maxSlabs: maxSlabs}
}

// Alloc reserves space for one T and returns a stable pointer to it, zero-valued.
// The pointer remains valid for the lifetime of the arena.
func (a *Arena[T]) Alloc() (*T, error) {
	if len(a.slabs) == 0 || a.slabs[len(a.slabs)-1].used == a.slabSize {
		if a.maxSlabs > 0 && len(a.slabs) >= a.maxSlabs {
			return nil, ErrExhausted
		}

		a.slabs = append(a.slabs, &slab[T]{items: make([]T, a.slabSize)})
	}

	s := a.slabs[len(a.slabs)-1]
	p := &s.items[s.used]
	s.used++

	return p, nil
}

// New allocates a T in the arena and copies v into it, returning the stable pointer.
func (a *Arena[T]) New(v T) (*T, error) {
	p, err := a.Alloc()
	if err != nil {
		return nil, err
	}

	*p = v
	return p, nil
}

// SlabCount reports how many slabs have been allocated so far; used by benchmarks
// and tests to observe allocator pressure without exposing slab internals.
func (a *Arena[T]) SlabCount() int {
	return len(a.slabs)
}

// BytesArena is a dedicated bump allocator for interned byte strings. Unlike Arena[T],
// each allocation can be a variable-length span, so a slab here is sized in bytes and
// individual Intern calls may span multiple slabs worth of capacity by taking a
// dedicated slab of their own when they don't fit what remains of the current one.
type BytesArena struct {
	slabSize int
	maxSlabs int
	slabs    [][]byte
	used     int
}

// NewBytes creates a BytesArena with the given per-slab capacity (0 means a sane
// default) and an optional maximum slab count (0 means unbounded).
func NewBytes(slabSize, maxSlabs int) *BytesArena {
	if slabSize <= 0 {
		slabSize = 4096
	}

	return &BytesArena{slabSize: slabSize, maxSlabs: maxSlabs}
}

// Intern copies b into the arena, appends a terminating sentinel byte, and returns a
// stable pointer to the decoded string (the sentinel is not part of the returned
// string's length). No deduplication is performed: two calls with equal content
// return two distinct allocations.
func (a *BytesArena) Intern(b []byte) (*string, error) {
	need := len(b) + 1

	if len(a.slabs) == 0 || a.used+need > len(a.slabs[len(a.slabs)-1]) {
		size := a.slabSize
		if need > size {
			size = need
		}

		if a.maxSlabs > 0 && len(a.slabs) >= a.maxSlabs {
			return nil, ErrExhausted
		}

		a.slabs = append(a.slabs, make([]byte, size))
		a.used = 0
	}

	slab := a.slabs[len(a.slabs)-1]
	start := a.used
	copy(slab[start:], b)
	slab[start+len(b)] = 0
	a.used += need

	s := string(slab[start : start+len(b)])
	return &s, nil
}

// SlabCount reports how many byte slabs have been allocated.
func (a *BytesArena) SlabCount() int {
	return len(a.slabs)
}

// BytesSnapshot captures enough of a BytesArena's bump cursor to roll back
// allocations made after the snapshot was taken, used by the lexer's Peek to avoid
// leaving behind a throwaway interned string for every peeked literal.
type BytesSnapshot struct {
	slabCount int
	used      int
}

// Snapshot captures the arena's current bump position.
func (a *BytesArena) Snapshot() BytesSnapshot {
	return BytesSnapshot{slabCount: len(a.slabs), used: a.used}
}

// Restore rolls the arena's bump cursor back to a prior Snapshot, discarding any
// slabs and in-slab allocations made since. Space after the restored cursor in the
// current slab is reused by the next allocation; slabs added since the snapshot are
// dropped, and a later overflow allocates a fresh slab.
func (a *BytesArena) Restore(s BytesSnapshot) {
	if s.slabCount < len(a.slabs) {
		a.slabs = a.slabs[:s.slabCount]
	}
	a.used = s.used
}
