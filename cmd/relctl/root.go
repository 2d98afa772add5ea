package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/relkit/image"
	"github.com/joshuapare/relkit/region"
)

// imageRegion is the region every image opened by relctl is bound to.
type imageRegion struct{ region.Marker }

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "relctl",
	Short: "Create and inspect relocatable string images",
	Long: `relctl manages image files: memory-mapped regions holding a table of
short strings stored with relative pointers, so the file can be mapped at any
address and used without fixups.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// imageOptions returns options carrying a stderr logger: Debug in verbose
// mode, Warn otherwise.
func imageOptions() *image.Options {
	level := slog.LevelWarn
	if verbose && !quiet {
		level = slog.LevelDebug
	}
	return &image.Options{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

func openImage(path string, readOnly bool) (*image.Image[imageRegion], error) {
	printVerbose("Opening image: %s\n", path)
	opts := imageOptions()
	opts.ReadOnly = readOnly
	img, err := image.Open[imageRegion](path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
