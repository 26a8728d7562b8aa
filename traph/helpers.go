package traph

import (
	"github.com/on-the-ground/traph_go/shared/helper"
)

// Get reads field key of r as a T.
// It fails if the derivation fails or the value is not a T.
func Get[T any](r *Record, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return r.Get(key)
	})
}

// MustGet is the panic-on-failure variant of Get.
func MustGet[T any](r *Record, key string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return r.Get(key)
	})
}

// Peek returns field key of r as a T only if it is already resolved without
// error. It never triggers a derivation.
func Peek[T any](r *Record, key string) (T, bool) {
	return helper.GetTypedValueOf2[T](func() (any, bool) {
		return r.peek(key)
	})
}

// Field reads sibling field key as a T from inside a derivation, aborting the
// derivation on error or type mismatch.
func Field[T any](out Output, key string) T {
	v, err := helper.GetTypedValueOf[T](func() (any, error) {
		return out.Lookup(key)
	})
	if err != nil {
		panic(raised{err: err})
	}
	return v
}
