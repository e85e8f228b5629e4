// Package symbol implements the interner that maps byte-sequences to small
// stable integer ids for the lifetime of one training run.
//
// Interning keeps hashing and equality checks on a TokenSeq linear in the
// number of symbols rather than the number of bytes: once a byte sequence
// is interned, every later comparison is an int comparison, not a byte
// comparison. The interner never deletes entries, ids are stable once
// assigned and grow monotonically as new composite symbols are merged in.
package symbol

// ID identifies one interned byte-sequence. Ids are assigned in the order
// symbols are first interned, starting at 0 for the first atomic byte.
type ID int32

// Pair is an ordered adjacency of two symbols within a TokenSeq.
type Pair struct {
	Left, Right ID
}

// Interner is a bijection between byte-sequences and Ids. Zero value is not
// usable; construct with New.
type Interner struct {
	table [][]byte
	ids   map[string]ID
}

// New creates an empty interner pre-sized for the 256 single-byte symbols
// every training run starts from.
func New() *Interner {
	return &Interner{
		table: make([][]byte, 0, 256),
		ids:   make(map[string]ID, 256),
	}
}

// Intern returns the stable Id for b, assigning a new one on first sight.
// The returned byte slice backing b is copied, so callers may reuse their
// buffer after the call returns.
func (in *Interner) Intern(b []byte) ID {
	if id, ok := in.ids[string(b)]; ok {
		return id
	}
	id := ID(len(in.table))
	owned := make([]byte, len(b))
	copy(owned, b)
	in.table = append(in.table, owned)
	in.ids[string(owned)] = id
	return id
}

// Bytes returns the byte-sequence behind id. It panics if id was never
// interned by this Interner, a programmer error, not a runtime condition.
func (in *Interner) Bytes(id ID) []byte {
	return in.table[id]
}

// Len returns the number of distinct symbols interned so far.
func (in *Interner) Len() int {
	return len(in.table)
}

// Concat interns the concatenation of the bytes behind left and right,
// reusing the existing id if that exact composite was interned before
// (e.g. the same merge applying to two different pre-tokens).
func (in *Interner) Concat(left, right ID) ID {
	lb, rb := in.table[left], in.table[right]
	buf := make([]byte, 0, len(lb)+len(rb))
	buf = append(buf, lb...)
	buf = append(buf, rb...)
	return in.Intern(buf)
}
