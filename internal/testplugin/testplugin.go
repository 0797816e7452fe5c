// Package testplugin compiles small C plugins for tests.
package testplugin

import (
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

//go:embed testdata/sample_plugin.c
var sampleSource []byte

//go:embed testdata/no_symbol.c
var noSymbolSource []byte

// SampleName is the name the sample plugin reports.
const SampleName = "sample"

// Sample builds a plugin exporting cfm_plugin_name and returns its path.
// The test is skipped when no C compiler is available.
func Sample(t testing.TB) string {
	t.Helper()
	return build(t, "sample", sampleSource)
}

// NoSymbol builds a shared library that lacks cfm_plugin_name.
func NoSymbol(t testing.TB) string {
	t.Helper()
	return build(t, "nosymbol", noSymbolSource)
}

// NotALibrary writes a regular file that cannot be mapped.
func NotALibrary(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bogus"+ext())
	if err := os.WriteFile(path, []byte("not a shared object\n"), 0o600); err != nil {
		t.Fatalf("write bogus library: %v", err)
	}
	return path
}

func build(t testing.TB, name string, src []byte) string {
	t.Helper()
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		t.Skipf("dynamic loading unsupported on %s", runtime.GOOS)
	}
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		t.Skipf("no C compiler: %v", err)
	}

	dir := t.TempDir()
	srcPath := filepath.Join(dir, name+".c")
	if err := os.WriteFile(srcPath, src, 0o600); err != nil {
		t.Fatalf("write plugin source: %v", err)
	}
	out := filepath.Join(dir, "lib"+name+ext())
	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", out, srcPath)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot build plugin: %v\n%s", err, b)
	}
	return out
}

func ext() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}
