package bpe

// config holds the settings a Train call is assembled from. Unexported
// and only ever touched through the Option constructors below.
type config struct {
	filepath      string
	boundaries    []int64
	specialTokens []string
	maxMerges     int
}

// Option is a functional option for configuring a Train call.
type Option func(*config) error

// WithFile sets the path of the corpus file to train on. Required.
func WithFile(path string) Option {
	return func(c *config) error {
		c.filepath = path
		return nil
	}
}

// WithBoundaries sets the non-decreasing byte offsets chunk ranges are
// carved from. At least two entries are required for any work to
// happen; boundaries[0] should be >= 0 and the last entry <= the file
// size, both validated at Train time once the file is known to exist.
// Equal consecutive boundaries are allowed and produce a zero-length
// chunk, e.g. []int64{0, 0} for an empty file.
func WithBoundaries(boundaries []int64) Option {
	return func(c *config) error {
		c.boundaries = append([]int64(nil), boundaries...)
		return nil
	}
}

// WithSpecialTokens sets the literal strings that must never be merged
// across. Duplicates are harmless; the empty set disables special-token
// splitting entirely.
func WithSpecialTokens(tokens []string) Option {
	return func(c *config) error {
		c.specialTokens = append([]string(nil), tokens...)
		return nil
	}
}

// WithMaxMerges sets the target number of merges to produce. Zero returns
// an empty merge list immediately; requesting more merges than distinct
// pairs exist is not an error, training simply stops early.
func WithMaxMerges(n int) Option {
	return func(c *config) error {
		c.maxMerges = n
		return nil
	}
}
