//go:build !cgo

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "libconfium requires cgo; rebuild with CGO_ENABLED=1 -buildmode=c-shared")
	os.Exit(1)
}
