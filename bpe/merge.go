package bpe

import (
	"context"

	"github.com/agentstation/bpetrain/internal/pairindex"
	"github.com/agentstation/bpetrain/internal/symbol"
)

// Merge is one learned merge rule: Left and Right are the byte-sequences
// of the two symbols combined, in application order.
type Merge struct {
	Left, Right []byte
}

// runMerges is the core training loop: repeatedly pop the top pair off
// the index, rewrite every token that contains it, and push the
// resulting adjacencies back in, until max merges are produced or the
// heap runs dry. It never returns a partial Merges slice alongside a
// non-nil error, a cancellation is detected before a merge is recorded,
// not after.
func runMerges(ctx context.Context, in *symbol.Interner, idx *pairindex.Index, c *corpus, max int) ([]Merge, error) {
	merges := make([]Merge, 0, max)

	for len(merges) < max {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, _, ok := idx.Pop()
		if !ok {
			break // heap exhausted before reaching max: return the partial list
		}

		merges = append(merges, Merge{
			Left:  cloneBytes(in.Bytes(p.Left)),
			Right: cloneBytes(in.Bytes(p.Right)),
		})

		applyMerge(in, idx, c, p)
	}

	return merges, nil
}

// snapshot of one token touched by the winning pair, captured before any
// mutation so that cross-token key collisions during rewriting (two
// distinct original tokens happening to rewrite to the same resulting
// sequence) can never observe each other's partially-applied state.
type touched struct {
	key   string
	seq   []symbol.ID
	count uint64
}

// applyMerge rewrites every token touched by the winning pair p: gather
// a snapshot of every token containing p, retract their old adjacencies,
// rewrite each left-to-right, and install the new adjacencies.
func applyMerge(in *symbol.Interner, idx *pairindex.Index, c *corpus, p symbol.Pair) {
	tokens := idx.Tokens(p)
	snapshot := make([]touched, 0, len(tokens))
	for key := range tokens {
		seq, ok := c.seqs[key]
		if !ok {
			continue
		}
		count, ok := c.counts[key]
		if !ok || count == 0 {
			continue
		}
		snapshot = append(snapshot, touched{key: key, seq: seq, count: count})
	}

	for _, t := range snapshot {
		retractAdjacencies(idx, t.key, t.seq, t.count)

		newSeq := rewriteWithMerge(in, t.seq, p)
		newKey := tokenKey(newSeq)

		c.counts[newKey] += t.count
		c.seqs[newKey] = newSeq
		c.decrementOrRemove(t.key, t.count)

		installAdjacencies(idx, newKey, newSeq, t.count)
	}
}

// retractAdjacencies removes every adjacent pair of seq from the index,
// weighted by weight, as seen from the token keyed by key, step 3's
// "retract old adjacencies".
func retractAdjacencies(idx *pairindex.Index, key string, seq []symbol.ID, weight uint64) {
	for i := 0; i < len(seq)-1; i++ {
		q := symbol.Pair{Left: seq[i], Right: seq[i+1]}
		idx.Remove(q, key, weight)
	}
}

// installAdjacencies adds every adjacent pair of seq to the index,
// weighted by weight, as seen from the token keyed by key, step 3's
// "install new adjacencies".
func installAdjacencies(idx *pairindex.Index, key string, seq []symbol.ID, weight uint64) {
	for i := 0; i < len(seq)-1; i++ {
		q := symbol.Pair{Left: seq[i], Right: seq[i+1]}
		idx.Add(q, key, weight)
	}
}

// rewriteWithMerge scans seq left-to-right, replacing every
// non-overlapping occurrence of p with its interned composite symbol.
// Left-to-right greedy replacement is the canonical BPE convention and is
// the merge engine relies on.
func rewriteWithMerge(in *symbol.Interner, seq []symbol.ID, p symbol.Pair) []symbol.ID {
	out := make([]symbol.ID, 0, len(seq))
	i := 0
	for i < len(seq) {
		if i+1 < len(seq) && seq[i] == p.Left && seq[i+1] == p.Right {
			out = append(out, in.Concat(p.Left, p.Right))
			i += 2
			continue
		}
		out = append(out, seq[i])
		i++
	}
	return out
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
