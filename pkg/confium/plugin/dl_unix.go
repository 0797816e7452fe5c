//go:build darwin || freebsd || linux

package plugin

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func dlsym(handle uintptr, symbol string) (uintptr, error) {
	if handle == 0 {
		return 0, errReleased
	}
	return purego.Dlsym(handle, symbol)
}

func dlclose(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}

func callName(sym uintptr) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin: calling %s: %v", NameSymbol, r)
		}
	}()
	var fn func() string
	purego.RegisterFunc(&fn, sym)
	return fn(), nil
}
