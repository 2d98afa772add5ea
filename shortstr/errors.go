package shortstr

import "errors"

var (
	// ErrInvalidUTF8 indicates source bytes that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("shortstr: invalid UTF-8")
	// ErrCorrupt indicates a record whose fields contradict each other.
	ErrCorrupt = errors.New("shortstr: corrupt record")
)
