package format

import "errors"

// ErrSignatureMismatch indicates a structure had an unexpected magic.
var ErrSignatureMismatch = errors.New("format: signature mismatch")
