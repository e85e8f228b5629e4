// Package traincmd provides the train command for the bpetrain CLI.
package traincmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/bpetrain/bpe"
)

var (
	trainMax           int
	trainSpecialTokens []string
	trainBoundaries    string
	trainChunks        int
	trainOutput        string
)

// Command returns the train command for the bpetrain CLI.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <file>",
		Short: "Learn byte-level BPE merge rules from a corpus file",
		Long: `Train runs pre-tokenization and the incremental merge loop over a
corpus file and prints the ordered merge rules it learns.

By default the whole file is scanned as a single chunk. Pass --chunks to
split it into that many parallel pre-tokenization workers, or --boundaries
to supply exact byte offsets yourself.`,
		Example: `  # Train up to 1000 merges on the whole file
  bpetrain train corpus.txt --max 1000

  # Split into 4 chunks and keep a document separator from ever merging across
  bpetrain train corpus.txt --max 1000 --chunks 4 --special-token "<|endoftext|>"

  # Print merges as JSON instead of the default text format
  bpetrain train corpus.txt --max 1000 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: runTrain,
	}

	cmd.Flags().IntVar(&trainMax, "max", 0, "Maximum number of merges to learn")
	cmd.Flags().StringArrayVar(&trainSpecialTokens, "special-token", nil, "Literal string that must never be merged across (repeatable)")
	cmd.Flags().StringVar(&trainBoundaries, "boundaries", "", "Comma-separated byte offsets, e.g. \"0,1024,4096\" (overrides --chunks)")
	cmd.Flags().IntVar(&trainChunks, "chunks", 1, "Number of roughly-equal parallel chunks to split the file into")
	cmd.Flags().StringVarP(&trainOutput, "output", "o", "text", "Output format: text, json")

	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	path := args[0]

	boundaries, err := resolveBoundaries(path)
	if err != nil {
		return err
	}

	merges, err := bpe.Train(context.Background(),
		bpe.WithFile(path),
		bpe.WithBoundaries(boundaries),
		bpe.WithSpecialTokens(trainSpecialTokens),
		bpe.WithMaxMerges(trainMax),
	)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	return writeMerges(cmd.OutOrStdout(), merges, trainOutput)
}

func resolveBoundaries(path string) ([]int64, error) {
	if trainBoundaries != "" {
		return parseBoundaries(trainBoundaries)
	}
	return chunkBoundaries(path, trainChunks)
}

func writeMerges(w io.Writer, merges []bpe.Merge, format string) error {
	switch format {
	case "json":
		type pair struct {
			Left  []byte `json:"left"`
			Right []byte `json:"right"`
		}
		out := make([]pair, len(merges))
		for i, m := range merges {
			out[i] = pair{Left: m.Left, Right: m.Right}
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshal merges: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "text":
		for _, m := range merges {
			fmt.Fprintf(w, "%q %q\n", m.Left, m.Right)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}
