package image

import "errors"

var (
	// ErrDigestMismatch indicates segment bytes that do not match the stored digest.
	ErrDigestMismatch = errors.New("image: digest mismatch")
	// ErrUnknownControl indicates a control kind this package cannot attach.
	ErrUnknownControl = errors.New("image: unknown control kind")
	// ErrIndex indicates an entry index outside the table.
	ErrIndex = errors.New("image: index out of range")
	// ErrReadOnly indicates a write to an image opened read-only.
	ErrReadOnly = errors.New("image: read-only")
	// ErrTooSmall indicates a file too small to hold an image.
	ErrTooSmall = errors.New("image: file too small")
	// ErrTooLarge indicates a requested size above MaxSize.
	ErrTooLarge = errors.New("image: size too large")
)
