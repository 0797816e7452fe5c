//go:build !(darwin || freebsd || linux)

package plugin

import "errors"

var errUnsupported = errors.New("plugin: dynamic loading is not supported on this platform")

func dlopen(string) (uintptr, error)         { return 0, errUnsupported }
func dlsym(uintptr, string) (uintptr, error) { return 0, errUnsupported }
func dlclose(uintptr) error                  { return nil }
func callName(uintptr) (string, error)       { return "", errUnsupported }
