package bpe

import (
	"encoding/binary"

	"github.com/agentstation/bpetrain/internal/symbol"
)

// tokenKey encodes a symbol.ID sequence into a string usable as a map key.
// Packing ids as fixed-width little-endian uint32s keeps the encoding
// injective and keeps comparisons cheap relative to re-deriving the
// sequence's byte expansion on every lookup. Interning pays off just as
// much for the corpus map's keys as it does for individual symbol
// comparisons.
func tokenKey(seq []symbol.ID) string {
	buf := make([]byte, len(seq)*4)
	for i, id := range seq {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}

// corpus holds the live token-count map plus the symbol-id sequence each
// key decodes to, so the merge engine never needs to decode a tokenKey
// back into ids.
type corpus struct {
	counts map[string]uint64
	seqs   map[string][]symbol.ID
}

func newCorpus() *corpus {
	return &corpus{
		counts: make(map[string]uint64),
		seqs:   make(map[string][]symbol.ID),
	}
}

// add inserts or accumulates weight for the TokenSeq seq.
func (c *corpus) add(seq []symbol.ID, weight uint64) {
	key := tokenKey(seq)
	c.counts[key] += weight
	if _, ok := c.seqs[key]; !ok {
		c.seqs[key] = seq
	}
}

// decrementOrRemove subtracts weight from key's count, deleting both the
// count and sequence entries once the count reaches zero. Mirrors the
// reference implementation's decrement_or_remove helper exactly.
func (c *corpus) decrementOrRemove(key string, weight uint64) {
	cur, ok := c.counts[key]
	if !ok {
		return
	}
	if weight >= cur {
		delete(c.counts, key)
		delete(c.seqs, key)
		return
	}
	c.counts[key] = cur - weight
}

// total sums every live token count; should equal the corpus's initial
// weight total at every point in the merge loop.
func (c *corpus) total() uint64 {
	var sum uint64
	for _, v := range c.counts {
		sum += v
	}
	return sum
}
