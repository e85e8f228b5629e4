package bpe

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/agentstation/bpetrain/internal/chunkscan"
	"github.com/agentstation/bpetrain/internal/pairindex"
	"github.com/agentstation/bpetrain/internal/pretokenize"
	"github.com/agentstation/bpetrain/internal/symbol"
)

// Train runs end-to-end BPE training and returns the learned merges in
// application order. See Option constructors (WithFile, WithBoundaries,
// WithSpecialTokens, WithMaxMerges) for configuration.
func Train(ctx context.Context, opts ...Option) ([]Merge, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.maxMerges <= 0 {
		return nil, nil
	}
	if cfg.filepath == "" {
		return nil, ErrNoFile
	}
	if len(cfg.boundaries) < 2 {
		return nil, ErrNoBoundaries
	}

	if err := validateBoundaries(cfg.filepath, cfg.boundaries); err != nil {
		return nil, err
	}

	ranges, err := chunkscan.RangesFromBoundaries(cfg.boundaries)
	if err != nil {
		return nil, NewBoundaryError("build ranges", err)
	}

	preTokenCounts, err := chunkscan.Scan(ctx, cfg.filepath, ranges, cfg.specialTokens)
	if err != nil {
		return nil, wrapScanErr(err)
	}

	in := symbol.New()
	internAllBytes(in, preTokenCounts)

	c := newCorpus()
	for preToken, count := range preTokenCounts {
		c.add(seqFromBytes(in, preToken), count)
	}

	idx := pairindex.New(in)
	idx.Build(c.seqs, c.counts)

	return runMerges(ctx, in, idx, c, cfg.maxMerges)
}

// PreTokenize is the standalone pre-tokenization entry point: it applies
// the special-token split and pre-token pattern to an in-memory string,
// returning the frequency of each distinct byte-string pre-token
// observed.
func PreTokenize(text string, specialTokens []string) (map[string]uint64, error) {
	s, err := pretokenize.New(specialTokens)
	if err != nil {
		return nil, wrapPretokenizeErr(err)
	}
	toks, err := s.Split(text)
	if err != nil {
		return nil, fmt.Errorf("bpe: pretokenize: %w", err)
	}

	counts := make(map[string]uint64, len(toks))
	for _, tok := range toks {
		counts[string(tok)]++
	}
	return counts, nil
}

// wrapPretokenizeErr converts a pretokenize.CompileError into the typed
// RegexError this package promises for special-token compile failures,
// the only case pretokenize.New can fail in practice.
func wrapPretokenizeErr(err error) error {
	var cerr *pretokenize.CompileError
	if errors.As(err, &cerr) {
		return NewRegexError(cerr.Pattern, cerr.Err)
	}
	return fmt.Errorf("bpe: %w", err)
}

// wrapScanErr converts the typed errors chunkscan and pretokenize report
// into this package's own typed errors: a chunk open/read failure becomes
// an IOError, a special-token compile failure becomes a RegexError.
// Anything else is wrapped generically.
func wrapScanErr(err error) error {
	var cerr *pretokenize.CompileError
	if errors.As(err, &cerr) {
		return NewRegexError(cerr.Pattern, cerr.Err)
	}
	var rerr *chunkscan.ReadError
	if errors.As(err, &rerr) {
		return NewIOError(rerr.Op, rerr.Path, rerr.Err)
	}
	return fmt.Errorf("bpe: scan corpus: %w", err)
}

// validateBoundaries checks the boundary contract Train relies on:
// non-decreasing, first entry >= 0, last entry <= the file's size. A run
// of equal boundaries is allowed and yields a zero-length range, the
// only way to represent an empty file's single, empty chunk.
func validateBoundaries(path string, boundaries []int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return NewIOError("stat", path, err)
	}

	if boundaries[0] < 0 {
		return NewBoundaryError("check start", fmt.Errorf("boundaries[0] = %d is negative", boundaries[0]))
	}
	size := info.Size()
	last := boundaries[len(boundaries)-1]
	if last > size {
		return NewBoundaryError("check end", fmt.Errorf("boundaries[-1] = %d exceeds file size %d", last, size))
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] < boundaries[i-1] {
			return NewBoundaryError("check monotonic", fmt.Errorf("boundaries not non-decreasing at index %d: %d then %d", i, boundaries[i-1], boundaries[i]))
		}
	}
	return nil
}

// internAllBytes computes the set of distinct byte values appearing in
// any pre-token and interns each in ascending order, before anything
// else runs. Assigning the first 256 (or fewer) symbol ids this way
// means the same corpus always gets the same ids, which feeds directly
// into the heap's deterministic tie-break.
func internAllBytes(in *symbol.Interner, preTokenCounts map[string]uint64) {
	var present [256]bool
	for preToken := range preTokenCounts {
		for i := 0; i < len(preToken); i++ {
			present[preToken[i]] = true
		}
	}
	for b := 0; b < 256; b++ {
		if present[b] {
			in.Intern([]byte{byte(b)})
		}
	}
}

// seqFromBytes converts a pre-token byte-string into a TokenSeq of
// single-byte symbol ids, all of which were interned by internAllBytes.
func seqFromBytes(in *symbol.Interner, preToken string) []symbol.ID {
	seq := make([]symbol.ID, len(preToken))
	for i := 0; i < len(preToken); i++ {
		seq[i] = in.Intern([]byte{preToken[i]})
	}
	return seq
}
