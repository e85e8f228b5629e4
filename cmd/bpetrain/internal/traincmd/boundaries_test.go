package traincmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseBoundaries(t *testing.T) {
	tests := []struct {
		in      string
		want    []int64
		wantErr bool
	}{
		{in: "0,1024", want: []int64{0, 1024}},
		{in: "0, 10, 20", want: []int64{0, 10, 20}},
		{in: "0,abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseBoundaries(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBoundaries(%q): want error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseBoundaries(%q): %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("parseBoundaries(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseBoundaries(%q)[%d] = %d, want %d", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestChunkBoundariesSingleChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("line one\nline two\nline three\n"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	got, err := chunkBoundaries(path, 1)
	if err != nil {
		t.Fatalf("chunkBoundaries: %v", err)
	}
	info, _ := os.Stat(path)
	want := []int64{0, info.Size()}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("chunkBoundaries(n=1) = %v, want %v", got, want)
	}
}

func TestChunkBoundariesSnapsToNewline(t *testing.T) {
	contents := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc\ndddddddddd\n"
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	got, err := chunkBoundaries(path, 2)
	if err != nil {
		t.Fatalf("chunkBoundaries: %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("chunkBoundaries(n=2) = %v, want at least 2 entries", got)
	}
	if got[0] != 0 {
		t.Errorf("first boundary = %d, want 0", got[0])
	}
	if got[len(got)-1] != int64(len(contents)) {
		t.Errorf("last boundary = %d, want %d", got[len(got)-1], len(contents))
	}
	for _, b := range got[1 : len(got)-1] {
		if b == 0 || contents[b-1] != '\n' {
			t.Errorf("interior boundary %d does not immediately follow a newline", b)
		}
	}
}

func TestChunkBoundariesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	got, err := chunkBoundaries(path, 4)
	if err != nil {
		t.Fatalf("chunkBoundaries: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Errorf("chunkBoundaries(empty) = %v, want [0 0]", got)
	}
}
