// Package internalcheck holds source policy tests for the confium module.
//
// It contains no code of its own. The tests load the module with
// golang.org/x/tools/go/packages and reject constructs that would break the
// guarantees of the C entry surface.
package internalcheck
