package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bpetrain/cmd/bpetrain/internal/pretokenizecmd"
	"github.com/agentstation/bpetrain/cmd/bpetrain/internal/traincmd"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bpetrain",
	Short: "Train a byte-level BPE tokenizer from a raw text corpus",
	Long: `bpetrain trains a byte-level Byte-Pair Encoding tokenizer from a raw
text corpus and prints the ordered list of merge rules it learns.

Training does not produce a ready-to-use tokenizer vocabulary or expose
an encode/decode path, it only runs the pre-tokenization and merge-loop
stages and reports the merges a downstream tokenizer would apply.`,
	Example: `  # Train on a whole file in a single chunk, up to 10000 merges
  bpetrain train corpus.txt --max 10000

  # Split into 8 parallel chunks and protect a document separator
  bpetrain train corpus.txt --max 10000 --chunks 8 --special-token "<|endoftext|>"

  # Inspect pre-tokenization alone, without running any merges
  bpetrain pretokenize corpus.txt --special-token "<|endoftext|>"`,
	SilenceUsage: true,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bpetrain version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit:     %s\n", commit)
		}
		if buildDate != "unknown" {
			fmt.Printf("  built:      %s\n", buildDate)
		}
		if goVersion != "unknown" {
			fmt.Printf("  go version: %s\n", goVersion)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(traincmd.Command())
	rootCmd.AddCommand(pretokenizecmd.Command())
}
