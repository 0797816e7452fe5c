// Package cfmerr defines the error model shared by every confium component
// and by the C entry surface.
//
// An Error carries a Kind from a closed set of variants, an optional cause
// and the stack captured at construction. Each Kind maps to a fixed Code;
// the code is the only part of an error that crosses the C boundary as a
// plain value, everything else is reached through an error handle.
//
// Chains are built by wrapping:
//
//	err := cfmerr.Wrap(cfmerr.InvalidConfig{Line: 3}, cfmerr.New(cfmerr.Overflow{}))
//	cfmerr.CodeOf(err)                      // CodeInvalidConfig
//	cfmerr.IsCode(err, cfmerr.CodeOverflow) // true
//	fmt.Printf("%+v", err)                  // messages, stacks and causes
package cfmerr
