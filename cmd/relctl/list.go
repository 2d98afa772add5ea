package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <image>",
		Short: "List all entries",
		Long: `The list command prints every entry with its index.

Example:
  relctl list names.rlk
  relctl list names.rlk --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
}

func runList(args []string) error {
	img, err := openImage(args[0], true)
	if err != nil {
		return err
	}
	defer img.Close()

	entries := make([]entryJSON, 0, img.Len())
	for i := range img.Len() {
		s, err := img.Entry(i)
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}
		b, err := s.Bytes()
		if err != nil {
			return fmt.Errorf("failed to read entry %d: %w", i, err)
		}
		entries = append(entries, entryJSON{Index: i, Value: string(b), Inline: s.IsInline(), Capacity: s.Capacity()})
	}

	if jsonOut {
		return printJSON(entries)
	}
	for _, e := range entries {
		if verbose {
			repr := "spilled"
			if e.Inline {
				repr = "inline"
			}
			printInfo("%d\t%s\t%d\t%s\n", e.Index, repr, e.Capacity, e.Value)
			continue
		}
		printInfo("%d\t%s\n", e.Index, e.Value)
	}
	return nil
}
