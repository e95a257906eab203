package ombra

// noneId is the reserved handle value meaning "no reference".
const noneId = -1

// Handle is a typed index into a Pack of the same element type. It carries no
// ownership; the Pack owns the value. Handles stay valid for the lifetime of
// the Pack that issued them.
type Handle[T any] struct {
	id int
}

// NewHandle wraps a raw index. Mostly useful for scene builders that know the
// layout of a Pack in advance.
func NewHandle[T any](id int) Handle[T] {
	return Handle[T]{id: id}
}

// NoneHandle returns the sentinel handle that references nothing.
func NoneHandle[T any]() Handle[T] {
	return Handle[T]{id: noneId}
}

// Valid reports whether the handle references something. Only the sentinel is
// invalid; a handle pointing past the end of its Pack is still "valid" and
// signals a structural inconsistency when dereferenced, not an absent
// attachment.
func (h Handle[T]) Valid() bool {
	return h.id != noneId
}

// Id returns the raw index. Used as a grouping key by the draw manifest.
func (h Handle[T]) Id() int {
	return h.id
}

// Pack is an append-only owning container indexed by Handle. Elements are
// never moved or dropped individually, so a Handle is stable until the whole
// Pack goes away.
type Pack[T any] struct {
	elems []T
}

func NewPack[T any]() *Pack[T] {
	return &Pack[T]{}
}

// Push appends an element and returns its handle.
func (p *Pack[T]) Push(elem T) Handle[T] {
	h := Handle[T]{id: len(p.elems)}
	p.elems = append(p.elems, elem)
	return h
}

// Get returns the element referenced by the handle, or nil for the sentinel
// and for out-of-range indices.
func (p *Pack[T]) Get(h Handle[T]) *T {
	if !h.Valid() || h.id >= len(p.elems) {
		return nil
	}
	return &p.elems[h.id]
}

// GetById returns the element at a raw index, or nil when out of range.
func (p *Pack[T]) GetById(id int) *T {
	if id < 0 || id >= len(p.elems) {
		return nil
	}
	return &p.elems[id]
}

func (p *Pack[T]) Len() int {
	return len(p.elems)
}
