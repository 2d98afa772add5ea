package region

import "errors"

var (
	// ErrHeld indicates the permit for a key is already held by a live owner.
	ErrHeld = errors.New("region: permit already held")
	// ErrOutOfBounds indicates a slot range outside its memory.
	ErrOutOfBounds = errors.New("region: slot out of bounds")
	// ErrOutsideRegion indicates a block that does not lie in the region's bytes.
	ErrOutsideRegion = errors.New("region: block outside region")
	// ErrCrossRegion indicates two slots belonging to different memories.
	ErrCrossRegion = errors.New("region: slots belong to different memories")
)
