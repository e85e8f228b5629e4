// Package pretokenize splits raw text into pre-tokens: it first removes any
// literal special-token occurrences, then applies the GPT-2-style
// pre-token pattern to each remaining slice.
//
// The pre-token pattern requires a negative lookahead, which Go's stdlib
// regexp (RE2) cannot express. This package compiles the pattern with
// dlclark/regexp2 instead, the same backtracking engine the rest of the
// Go BPE ecosystem reaches for when it needs tiktoken-compatible splitting.
package pretokenize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Pattern is the fixed pre-token regex every training run uses.
const Pattern = `'(?:[sdmt]|ll|ve|re)| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

var preTokenRegex = regexp2.MustCompile(Pattern, regexp2.None)

// Splitter applies a (possibly empty) special-token split followed by the
// fixed pre-token pattern. A Splitter is safe for concurrent use: regexp2
// Regexp values may be used from multiple goroutines once compiled, and a
// Splitter holds no other mutable state.
type Splitter struct {
	special *regexp2.Regexp // nil when there are no special tokens
}

// New compiles a Splitter for the given set of literal special-token
// strings. Duplicates are harmless. An empty set is valid and disables
// special-token splitting entirely.
func New(specialTokens []string) (*Splitter, error) {
	if len(specialTokens) == 0 {
		return &Splitter{}, nil
	}

	escaped := make([]string, len(specialTokens))
	for i, tok := range specialTokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}
	// regexp2 alternation is leftmost-first, so longer tokens go first to
	// make overlapping tokens resolve leftmost-longest.
	sort.SliceStable(escaped, func(i, j int) bool { return len(escaped[i]) > len(escaped[j]) })

	joined := strings.Join(escaped, "|")
	re, err := regexp2.Compile(joined, regexp2.None)
	if err != nil {
		return nil, &CompileError{Pattern: joined, Err: err}
	}
	return &Splitter{special: re}, nil
}

// CompileError indicates the special-token alternation failed to compile.
// The fixed pre-token pattern is known-valid, so this is the only way
// regex construction in this package fails in practice. This package has
// no dependency on the bpe package, so bpe.Train and bpe.PreTokenize
// convert a CompileError into a bpe.RegexError at the boundary where
// they do.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pretokenize: compile special-token pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Split returns the pre-tokens of text in match order, as UTF-8 byte
// slices. Special-token occurrences are discarded, never emitted.
func (s *Splitter) Split(text string) ([][]byte, error) {
	var out [][]byte
	for _, piece := range s.splitSpecial(text) {
		if piece == "" {
			continue
		}
		toks, err := matchAll(preTokenRegex, piece)
		if err != nil {
			return nil, fmt.Errorf("pretokenize: pattern match: %w", err)
		}
		out = append(out, toks...)
	}
	return out, nil
}

// splitSpecial splits text on every occurrence of the special-token
// pattern, discarding the matches themselves and keeping the text between
// them (including leading/trailing empty pieces, filtered out by Split).
//
// regexp2 reports Index and Length in runes, not bytes, since it matches
// over a []rune internally. Slicing the original string with those
// offsets directly would misalign on any non-ASCII text and could cut a
// multi-byte rune in half, so text is converted to []rune once up front
// and every piece is sliced from that.
func (s *Splitter) splitSpecial(text string) []string {
	if s.special == nil {
		return []string{text}
	}

	runes := []rune(text)
	var pieces []string
	lastEnd := 0
	m, _ := s.special.FindStringMatch(text)
	for m != nil {
		start, end := m.Index, m.Index+m.Length
		pieces = append(pieces, string(runes[lastEnd:start]))
		lastEnd = end
		m, _ = s.special.FindNextMatch(m)
	}
	pieces = append(pieces, string(runes[lastEnd:]))
	return pieces
}

// matchAll returns every non-overlapping match of re against text, as
// byte slices, in match order.
func matchAll(re *regexp2.Regexp, text string) ([][]byte, error) {
	var out [][]byte
	m, err := re.FindStringMatch(text)
	if err != nil {
		return nil, err
	}
	for m != nil {
		out = append(out, []byte(m.String()))
		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
