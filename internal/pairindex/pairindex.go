// Package pairindex maintains the pair-count / pair-tokens / heap triad the
// merge engine drives: for every adjacent pair of symbols across the
// corpus it tracks an aggregate count, the set of token keys that contain
// it, and a max-heap ordered by (count desc, pair bytes asc) so the next
// merge candidate can be found without a full rescan.
//
// The heap tolerates staleness by design (see Pop): rather than a
// decrease-key operation, every count update pushes a fresh heap entry and
// lets Pop filter out entries whose count no longer matches the live
// pair_count. This trades heap memory for a much simpler update path,
// adapted from a min-heap of per-node merge priorities to a max-heap of
// pair identities.
package pairindex

import (
	"bytes"
	"container/heap"

	"github.com/agentstation/bpetrain/internal/symbol"
)

// Index owns pair_count, pair_tokens, and the stale-tolerant heap for one
// training run. Not safe for concurrent use, the merge loop that drives
// it is single-threaded by design.
type Index struct {
	in *symbol.Interner

	count  map[symbol.Pair]uint64
	tokens map[symbol.Pair]map[string]struct{}
	h      pairHeap
}

// New creates an empty Index. in is used to resolve symbol ids to bytes
// for the heap's deterministic tie-break.
func New(in *symbol.Interner) *Index {
	return &Index{
		in:     in,
		count:  make(map[symbol.Pair]uint64),
		tokens: make(map[symbol.Pair]map[string]struct{}),
		h:      pairHeap{in: in},
	}
}

// Count returns the current aggregate count for p, or 0 if p is absent.
func (idx *Index) Count(p symbol.Pair) uint64 {
	return idx.count[p]
}

// Tokens returns the live set of token keys containing p. The returned map
// must not be retained past the next mutating call, callers that need a
// stable snapshot (e.g. the merge engine before rewriting) should copy it.
func (idx *Index) Tokens(p symbol.Pair) map[string]struct{} {
	return idx.tokens[p]
}

// Add records delta additional occurrences of p inside the token keyed by
// tokKey, pushing a fresh heap entry for the new aggregate count. delta
// must be > 0; use Remove to decrement.
func (idx *Index) Add(p symbol.Pair, tokKey string, delta uint64) {
	if delta == 0 {
		return
	}
	idx.count[p] += delta
	set, ok := idx.tokens[p]
	if !ok {
		set = make(map[string]struct{})
		idx.tokens[p] = set
	}
	set[tokKey] = struct{}{}
	heap.Push(&idx.h, entry{count: idx.count[p], pair: p})
}

// Remove retracts delta occurrences of p previously attributed to the
// token keyed by tokKey. Subtraction saturates at zero: under correct
// invariants counts never go negative, but saturating guards against any
// accumulated update-ordering slip rather than panicking on it.
//
// tokKey is removed from pair_tokens[p] unconditionally, a token being
// rewritten retracts every one of its old adjacencies exactly once, so by
// the time Remove is called tokKey's membership in pair_tokens[p] is
// always stale and due for removal regardless of the resulting count.
func (idx *Index) Remove(p symbol.Pair, tokKey string, delta uint64) {
	if delta == 0 {
		return
	}
	if set, ok := idx.tokens[p]; ok {
		delete(set, tokKey)
		if len(set) == 0 {
			delete(idx.tokens, p)
		}
	}

	cur, ok := idx.count[p]
	if !ok {
		return
	}
	if delta >= cur {
		delete(idx.count, p)
		delete(idx.tokens, p)
		return
	}
	idx.count[p] = cur - delta
	heap.Push(&idx.h, entry{count: idx.count[p], pair: p})
}

// Pop returns the highest-priority live pair, discarding stale heap
// entries along the way. ok is false once the heap is empty of valid
// entries.
func (idx *Index) Pop() (p symbol.Pair, count uint64, ok bool) {
	for idx.h.Len() > 0 {
		e := heap.Pop(&idx.h).(entry)
		live, present := idx.count[e.pair]
		if !present || live != e.count {
			continue // stale: count has since changed or pair is gone
		}
		return e.pair, e.count, true
	}
	return symbol.Pair{}, 0, false
}

// Build populates the index from a corpus map in one pass:
// for every token of length >= 2, every adjacent pair contributes its
// token's weight to pair_count and pair_tokens, and a heap entry is pushed
// for the running total. Keys of toks are the same token-key strings used
// elsewhere (see bpe.tokenKey) paired with their symbol.ID sequence.
func (idx *Index) Build(toks map[string][]symbol.ID, counts map[string]uint64) {
	for key, seq := range toks {
		if len(seq) < 2 {
			continue
		}
		c := counts[key]
		for i := 0; i < len(seq)-1; i++ {
			idx.Add(symbol.Pair{Left: seq[i], Right: seq[i+1]}, key, c)
		}
	}
}

// entry is one (count, pair) candidate on the heap. Multiple entries for
// the same pair may coexist; Pop resolves staleness against the live
// count map.
type entry struct {
	count uint64
	pair  symbol.Pair
}

// pairHeap implements container/heap.Interface as a max-heap ordered by
// (count desc, pair bytes asc), the deterministic tie-break reproducible
// training depends on.
type pairHeap struct {
	items []entry
	in    *symbol.Interner
}

func (h pairHeap) Len() int { return len(h.items) }

func (h pairHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.count != b.count {
		return a.count > b.count
	}
	return pairBytesLess(h.in, a.pair, b.pair)
}

func (h pairHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *pairHeap) Push(x any) { h.items = append(h.items, x.(entry)) }

func (h *pairHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func pairBytesLess(in *symbol.Interner, a, b symbol.Pair) bool {
	if c := bytes.Compare(in.Bytes(a.Left), in.Bytes(b.Left)); c != 0 {
		return c < 0
	}
	return bytes.Compare(in.Bytes(a.Right), in.Bytes(b.Right)) < 0
}
