//go:build tinygo

package app

// haltAfterPanic keeps the panic screen up until power-cycle.
func haltAfterPanic() { select {} }
