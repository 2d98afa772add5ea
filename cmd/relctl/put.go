package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var putCharset string

func init() {
	cmd := newPutCmd()
	cmd.Flags().StringVar(&putCharset, "charset", "", "Decode arguments from this IANA charset (e.g. windows-1252)")
	rootCmd.AddCommand(cmd)
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <image> <string>...",
		Short: "Append strings to an image",
		Long: `The put command appends each argument as a new entry and prints its index.
Strings of up to 16 bytes are stored inline in their record; longer ones are
allocated from the image segment.

Example:
  relctl put names.rlk alice bob "a much longer name that spills"
  relctl put names.rlk $'caf\xe9' --charset windows-1252`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(args)
		},
	}
}

func runPut(args []string) error {
	var enc encoding.Encoding
	if putCharset != "" {
		e, err := ianaindex.IANA.Encoding(putCharset)
		if err != nil {
			return fmt.Errorf("unknown charset %q: %w", putCharset, err)
		}
		if e == nil {
			return fmt.Errorf("charset %q is not supported", putCharset)
		}
		enc = e
	}

	img, err := openImage(args[0], false)
	if err != nil {
		return err
	}

	indexes := make([]int, 0, len(args)-1)
	for _, s := range args[1:] {
		var i int
		if enc != nil {
			i, err = img.AppendEncoded([]byte(s), enc)
		} else {
			i, err = img.Append(s)
		}
		if err != nil {
			_ = img.Close()
			return fmt.Errorf("failed to append %q: %w", s, err)
		}
		indexes = append(indexes, i)
		printVerbose("Appended entry %d (%d bytes)\n", i, len(s))
	}
	if err := img.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"indexes": indexes})
	}
	for _, i := range indexes {
		printInfo("%d\n", i)
	}
	return nil
}
