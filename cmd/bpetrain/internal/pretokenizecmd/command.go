// Package pretokenizecmd provides the pretokenize command for the bpetrain
// CLI: a standalone way to inspect pre-tokenization without running any
// merges.
package pretokenizecmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentstation/bpetrain/bpe"
)

var (
	specialTokens []string
	output        string
)

// Command returns the pretokenize command for the bpetrain CLI.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pretokenize <file>",
		Short: "Split a corpus file into pre-tokens and print their frequencies",
		Long: `Pretokenize applies the special-token split and the fixed pre-token
pattern to a file's contents and prints the distinct pre-tokens observed
along with how many times each occurred.

This does not run any merges; it is a way to inspect pre-tokenization
before committing to a training run.`,
		Example: `  # Show pre-token frequencies for a file
  bpetrain pretokenize corpus.txt

  # Exclude a document separator from pre-tokenization
  bpetrain pretokenize corpus.txt --special-token "<|endoftext|>"`,
		Args: cobra.ExactArgs(1),
		RunE: runPretokenize,
	}

	cmd.Flags().StringArrayVar(&specialTokens, "special-token", nil, "Literal string excluded from pre-tokenization (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json")

	return cmd
}

func runPretokenize(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("pretokenize: %w", err)
	}

	counts, err := bpe.PreTokenize(string(data), specialTokens)
	if err != nil {
		return fmt.Errorf("pretokenize: %w", err)
	}

	return writeCounts(cmd.OutOrStdout(), counts, output)
}

func writeCounts(w io.Writer, counts map[string]uint64, format string) error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	switch format {
	case "json":
		data, err := json.Marshal(counts)
		if err != nil {
			return fmt.Errorf("marshal pre-token counts: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "text":
		for _, k := range keys {
			fmt.Fprintf(w, "%d\t%q\n", counts[k], k)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}
