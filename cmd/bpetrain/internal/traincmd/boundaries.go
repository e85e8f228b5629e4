package traincmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// parseBoundaries parses a comma-separated list of byte offsets, e.g.
// "0,1024,4096", into the []int64 Train expects.
func parseBoundaries(s string) ([]int64, error) {
	fields := strings.Split(s, ",")
	out := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid boundary %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

// chunkBoundaries computes n roughly-equal chunk boundaries over path,
// snapping every interior cut forward to the next newline byte so a
// chunk split never falls inside a pre-token. If no newline is found
// before the file's end, the ideal (unsnapped) cut is used instead,
// which merely costs parallel-equivalence on that one boundary rather
// than corrupting the scan.
func chunkBoundaries(path string, n int) ([]int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	if n <= 1 || size == 0 {
		return []int64{0, size}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	boundaries := []int64{0}
	step := size / int64(n)
	for i := 1; i < n; i++ {
		cut := snapToNewline(data, step*int64(i))
		if cut > boundaries[len(boundaries)-1] && cut < size {
			boundaries = append(boundaries, cut)
		}
	}
	boundaries = append(boundaries, size)
	return boundaries, nil
}

// snapToNewline returns the offset just past the first '\n' at or after
// ideal, or ideal itself if none is found before the end of data.
func snapToNewline(data []byte, ideal int64) int64 {
	for i := ideal; i < int64(len(data)); i++ {
		if data[i] == '\n' {
			return i + 1
		}
	}
	return ideal
}
