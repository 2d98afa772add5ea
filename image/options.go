package image

import (
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultSize is the file size used by Create when Options.Size is zero.
	DefaultSize = 1 << 20

	// DefaultControl is the allocator control used by Create.
	DefaultControl = "freelist"

	envSize    = "RELKIT_IMAGE_SIZE"
	envControl = "RELKIT_IMAGE_CONTROL"
)

// Options configures Create and Open. A nil *Options uses the defaults.
type Options struct {
	// Size is the file size Create allocates. Default 1 MiB; the
	// RELKIT_IMAGE_SIZE environment variable ("64MiB", "4096") overrides it.
	Size int

	// Control names the allocator control Create installs: "freelist"
	// (default) or "slab". RELKIT_IMAGE_CONTROL overrides it. Open reads the
	// control from the file instead.
	Control string

	// ReadOnly maps the file without write access (Open only).
	ReadOnly bool

	// Verify checks the stored digest on Open.
	Verify bool

	// Logger receives debug events. Default discards.
	Logger *slog.Logger

	// Registerer registers the image metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// resolveOptions applies environment overrides and defaults.
func resolveOptions(opts *Options) Options {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if env := os.Getenv(envSize); env != "" {
		if val, err := humanize.ParseBytes(env); err == nil && val <= MaxSize {
			o.Size = int(val)
		}
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if env := os.Getenv(envControl); env != "" {
		o.Control = env
	}
	if o.Control == "" {
		o.Control = DefaultControl
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
