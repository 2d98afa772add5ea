package region

import (
	"reflect"
)

// Tag is implemented by region marker types.
type Tag interface {
	RegionTag()
}

// Marker is embedded by region marker types:
//
//	type Heap struct{ region.Marker }
type Marker struct{}

// RegionTag implements Tag.
func (Marker) RegionTag() {}

// Name returns a printable name for the region R.
func Name[R Tag]() string {
	return reflect.TypeFor[R]().String()
}

func key[R Tag]() reflect.Type {
	return reflect.TypeFor[R]()
}
