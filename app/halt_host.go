//go:build !tinygo

package app

// haltAfterPanic returns so the supervisor can report the failure.
func haltAfterPanic() {}
