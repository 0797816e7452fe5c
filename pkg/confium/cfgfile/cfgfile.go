// Package cfgfile parses confium option files.
//
// An option file holds one `key = value` pair per line, where value is a
// single hexadecimal byte with an optional 0x prefix. Exactly empty lines
// are skipped; a line of spaces is not empty and fails like any other line
// without '='. Parsing is all-or-nothing: the first malformed line aborts
// the whole parse. Lines may be of any length; a line that is not valid
// UTF-8 is a read failure and carries an IO cause.
package cfgfile

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/confium/confium-go/pkg/confium/cfmerr"
)

// Options maps an option name to its byte value.
type Options map[string]uint8

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse reads the option file at path. Every failure is an
// InvalidConfig error whose cause names the specific problem.
func Parse(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cfmerr.WrapIO(cfmerr.InvalidConfig{}, err, path)
	}
	defer f.Close()
	return parse(f, path)
}

// ParseReader parses options from r. path is only used to annotate I/O
// failures and may be empty.
func ParseReader(r io.Reader, path string) (Options, error) {
	return parse(r, path)
}

func parse(r io.Reader, path string) (Options, error) {
	br := bufio.NewReader(r)

	opts := make(Options)
	line := 0
	for {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, cfmerr.WrapIO(cfmerr.InvalidConfig{Line: line + 1}, err, path)
		}
		if raw == "" && err == io.EOF {
			return opts, nil
		}
		line++

		text := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if text != "" {
			if perr := parseLine(opts, text, line, path); perr != nil {
				return nil, perr
			}
		}
		if err == io.EOF {
			return opts, nil
		}
	}
}

func parseLine(opts Options, text string, line int, path string) error {
	if !utf8.ValidString(text) {
		return cfmerr.WrapIO(cfmerr.InvalidConfig{Line: line}, cfmerr.New(cfmerr.InvalidUTF8{}), path)
	}
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return cfmerr.Wrap(cfmerr.InvalidConfig{Line: line}, cfmerr.New(cfmerr.ExpectedToken{Char: '='}))
	}
	b, err := ParseHexByte(strings.TrimSpace(value))
	if err != nil {
		return cfmerr.Wrap(cfmerr.InvalidConfig{Line: line}, err)
	}
	opts[strings.TrimSpace(key)] = b
	return nil
}

// ParseHexByte parses s as a hexadecimal byte with one optional leading
// "0x". It fails with InvalidFormat when no digits remain, InvalidHexDigit
// on the first non-hex character and Overflow on the first digit that
// pushes the value past 0xFF.
func ParseHexByte(s string) (uint8, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, cfmerr.New(cfmerr.InvalidFormat{})
	}
	var v uint8
	for _, ch := range s {
		d, ok := hexDigit(ch)
		if !ok {
			return 0, cfmerr.New(cfmerr.InvalidHexDigit{Char: ch})
		}
		if v > 0xFF/16 {
			return 0, cfmerr.New(cfmerr.Overflow{})
		}
		v *= 16
		if v > 0xFF-d {
			return 0, cfmerr.New(cfmerr.Overflow{})
		}
		v += d
	}
	return v, nil
}

func hexDigit(ch rune) (uint8, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint8(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return uint8(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return uint8(ch-'A') + 10, true
	}
	return 0, false
}
