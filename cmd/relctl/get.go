package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <image> <index>",
		Short: "Print one entry",
		Long: `The get command prints the entry at the given index.

Example:
  relctl get names.rlk 0
  relctl get names.rlk 3 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
}

type entryJSON struct {
	Index    int    `json:"index"`
	Value    string `json:"value"`
	Inline   bool   `json:"inline"`
	Capacity int    `json:"capacity"`
}

func runGet(args []string) error {
	i, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[1], err)
	}

	img, err := openImage(args[0], true)
	if err != nil {
		return err
	}
	defer img.Close()

	s, err := img.Entry(i)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	b, err := s.Bytes()
	if err != nil {
		return fmt.Errorf("failed to read entry %d: %w", i, err)
	}

	if jsonOut {
		return printJSON(entryJSON{Index: i, Value: string(b), Inline: s.IsInline(), Capacity: s.Capacity()})
	}
	printInfo("%s\n", b)
	return nil
}
