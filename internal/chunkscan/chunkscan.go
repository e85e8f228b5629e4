// Package chunkscan implements the parallel pre-tokenization phase: given a
// file path and a list of byte-offset boundaries, it scans every
// half-open range concurrently, pre-tokenizes each independently, and
// folds the per-chunk frequency maps into one corpus-wide map.
//
// This is the one data-parallel phase of training. Each
// worker owns its own file handle and local count map; no state is shared
// across goroutines until the caller folds the results after every
// worker has returned.
package chunkscan

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/bpetrain/internal/pretokenize"
)

// Range is a half-open byte range [Start, End) to scan.
type Range struct {
	Start, End int64
}

// ReadError indicates a chunk's file open or read failed. This package
// has no dependency on the bpe package, so bpe.Train converts a ReadError
// into a bpe.IOError at the boundary where it does.
type ReadError struct {
	Op   string
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("chunkscan: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// RangesFromBoundaries turns a non-decreasing list of offsets into the
// half-open ranges between consecutive entries. Callers must supply at
// least two boundaries for any work to happen. Consecutive equal
// boundaries produce a zero-length range, which is how an empty corpus
// file is represented (a single [0,0) range rather than no range at
// all).
func RangesFromBoundaries(boundaries []int64) ([]Range, error) {
	if len(boundaries) < 2 {
		return nil, fmt.Errorf("chunkscan: need at least two boundaries, got %d", len(boundaries))
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] < boundaries[i-1] {
			return nil, fmt.Errorf("chunkscan: boundaries must be non-decreasing, got %d then %d", boundaries[i-1], boundaries[i])
		}
	}
	ranges := make([]Range, len(boundaries)-1)
	for i := range ranges {
		ranges[i] = Range{Start: boundaries[i], End: boundaries[i+1]}
	}
	return ranges, nil
}

// Scan reads every range of filepath in parallel, pre-tokenizes each
// chunk's lossily-decoded text, and returns the corpus-wide frequency map
// of encoded pre-token byte-strings. An I/O failure on any chunk aborts
// the whole scan and surfaces as the single returned error.
func Scan(ctx context.Context, filepath string, ranges []Range, specialTokens []string) (map[string]uint64, error) {
	split, err := pretokenize.New(specialTokens)
	if err != nil {
		return nil, fmt.Errorf("chunkscan: %w", err)
	}

	locals := make([]map[string]uint64, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local, err := scanOne(filepath, r, split)
			if err != nil {
				return fmt.Errorf("chunkscan: range [%d,%d): %w", r.Start, r.End, err)
			}
			locals[i] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	global := make(map[string]uint64, len(locals)*8)
	for _, local := range locals {
		for key, count := range local {
			global[key] += count
		}
	}
	return global, nil
}

// scanOne reads exactly r.End-r.Start bytes starting at r.Start, decodes
// them lossily (invalid UTF-8 becomes U+FFFD), pre-tokenizes the result,
// and returns a local frequency map. It opens its own *os.File so it
// never shares a read position with any concurrent scanOne call.
func scanOne(filepath string, r Range, split *pretokenize.Splitter) (map[string]uint64, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, &ReadError{Op: "open", Path: filepath, Err: err}
	}
	defer f.Close()

	buf := make([]byte, r.End-r.Start)
	if _, err := f.ReadAt(buf, r.Start); err != nil {
		return nil, &ReadError{Op: "read", Path: filepath, Err: err}
	}

	// Lossy decode: any invalid UTF-8 byte sequence becomes U+FFFD,
	// matching the reference implementation's String::from_utf8_lossy.
	text := strings.ToValidUTF8(string(buf), "�")
	toks, err := split.Split(text)
	if err != nil {
		return nil, err
	}

	local := make(map[string]uint64, len(toks))
	for _, tok := range toks {
		local[string(tok)]++
	}
	return local, nil
}
