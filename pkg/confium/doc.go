// Package confium is the Go API behind the confium C library.
//
// A Context is the first object a host creates. It owns a logger and every
// plugin library loaded through it, reads option files during Initialize
// and releases everything in Close:
//
//	c := confium.New(confium.Config{})
//	defer c.Close()
//
//	if _, err := c.Initialize(ctx, "/etc/confium.cfg"); err != nil {
//	    fmt.Printf("%+v\n", err) // InitializationFailure -> InvalidConfig -> ...
//	}
//	lib, err := c.LoadPlugin(ctx, "/usr/lib/confium/libsha.so")
//
// Every error returned by an open Context is a *cfmerr.Error, or wraps one,
// so callers can recover the numeric code with cfmerr.CodeOf. A closed
// Context returns ErrClosed, which carries no code.
//
// A Context is not safe for concurrent use; callers serialize access.
package confium
