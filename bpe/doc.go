// Package bpe trains a byte-level Byte-Pair Encoding tokenizer from a raw
// text corpus, in pure Go.
//
// # Overview
//
// Training runs in four stages:
//
//  1. Parallel pre-tokenization: the corpus file is split at
//     caller-supplied byte boundaries and each chunk is scanned
//     concurrently, producing a byte-string pre-token frequency map.
//  2. Symbol interning: every distinct byte value seen is interned as an
//     atomic single-byte symbol, and every pre-token is converted into a
//     sequence of symbol ids.
//  3. Pair index construction: adjacent symbol pairs across the corpus
//     are counted into a max-heap ordered by (count desc, pair bytes asc).
//  4. Iterative merging: the top pair is popped, every token containing
//     it is rewritten, and the pair index is updated incrementally,
//     never by a full rescan.
//
// # Basic usage
//
//	merges, err := bpe.Train(ctx,
//	    bpe.WithFile("corpus.txt"),
//	    bpe.WithBoundaries([]int64{0, size}),
//	    bpe.WithSpecialTokens([]string{"<|endoftext|>"}),
//	    bpe.WithMaxMerges(10000),
//	)
//
// # Concurrency
//
// Pre-tokenization is data-parallel: each chunk owns its own file handle
// and local frequency map, folded into one corpus map after every worker
// returns. The merge loop that follows is strictly single-threaded, the
// pair index and corpus map are mutated by a sole writer, so no locking
// is needed there.
//
// # Determinism
//
// Two Train calls over identical input (same file bytes, boundaries,
// special tokens, and max) produce identical merge lists: ties in pair
// count are broken by comparing the pair's byte representation, not
// insertion order or map iteration order.
package bpe
