package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatCmd())
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <image>",
		Short: "Show image size and allocator usage",
		Long: `The stat command reports the file size, the allocator control and how
much of the segment it has handed out, and the number of inline and spilled
entries.

Example:
  relctl stat names.rlk
  relctl stat names.rlk --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStat(args)
		},
	}
}

func runStat(args []string) error {
	img, err := openImage(args[0], true)
	if err != nil {
		return err
	}
	defer img.Close()

	st, err := img.Stats()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":     args[0],
			"size":     st.Size,
			"control":  st.Control,
			"capacity": st.Capacity,
			"used":     st.Used,
			"free":     st.Free,
			"entries":  st.Entries,
			"inline":   st.Inline,
			"spilled":  st.Spilled,
			"digest":   img.StoredDigest(),
		})
	}

	printInfo("\nImage Statistics:\n")
	printInfo("  File: %s\n", args[0])
	printInfo("  Size: %s\n", humanize.IBytes(uint64(st.Size)))
	printInfo("  Control: %s\n", st.Control)
	printInfo("  Capacity: %s\n", humanize.IBytes(uint64(st.Capacity)))
	printInfo("  Used: %s (%.1f%%)\n", humanize.IBytes(uint64(st.Used)), percent(st.Used, st.Capacity))
	if st.Free > 0 {
		printInfo("  Free list: %s\n", humanize.IBytes(uint64(st.Free)))
	}
	printInfo("  Entries: %s (%s inline, %s spilled)\n",
		humanize.Comma(int64(st.Entries)), humanize.Comma(int64(st.Inline)), humanize.Comma(int64(st.Spilled)))
	printInfo("  Digest: %016x\n", img.StoredDigest())
	return nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
