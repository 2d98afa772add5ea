package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/relkit/image"
)

var (
	initSize    string
	initControl string
)

func init() {
	cmd := newInitCmd()
	cmd.Flags().StringVar(&initSize, "size", "", "File size, e.g. 4MiB (default 1MiB)")
	cmd.Flags().StringVar(&initControl, "control", "", "Allocator control: freelist or slab (default freelist)")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <image>",
		Short: "Create an empty image file",
		Long: `The init command creates a new image file with an empty string table.
It refuses to overwrite an existing file.

Example:
  relctl init names.rlk
  relctl init names.rlk --size 16MiB --control slab`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
}

func runInit(args []string) error {
	path := args[0]
	opts := imageOptions()
	opts.Control = initControl
	if initSize != "" {
		n, err := humanize.ParseBytes(initSize)
		if err != nil {
			return fmt.Errorf("invalid --size: %w", err)
		}
		if n > image.MaxSize {
			return fmt.Errorf("invalid --size: %s exceeds %s", initSize, humanize.IBytes(image.MaxSize))
		}
		opts.Size = int(n)
	}

	img, err := image.Create[imageRegion](path, opts)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	st, err := img.Stats()
	if err != nil {
		_ = img.Close()
		return err
	}
	if err := img.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":     path,
			"size":     st.Size,
			"control":  st.Control,
			"capacity": st.Capacity,
		})
	}
	printInfo("Created %s (%s, %s control)\n", path, humanize.IBytes(uint64(st.Size)), st.Control)
	return nil
}
