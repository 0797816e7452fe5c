package cfmerr

import (
	"fmt"
	"strconv"
)

// Code is the stable numeric identity of a Kind. It is the only error
// information that crosses the C boundary as a plain value, so existing
// values must never be renumbered.
type Code uint32

const (
	CodeUnknown               Code = 1
	CodeNullPointer           Code = 2
	CodeIO                    Code = 3
	CodeInvalidHexDigit       Code = 4
	CodeInvalidUTF8           Code = 5
	CodeInvalidFormat         Code = 6
	CodeOverflow              Code = 7
	CodePluginLoadError       Code = 8
	CodeInitializationFailure Code = 9
	CodeInvalidConfig         Code = 10
	CodeExpectedToken         Code = 11
)

func (c Code) String() string {
	switch c {
	case CodeUnknown:
		return "UNKNOWN"
	case CodeNullPointer:
		return "NULL_POINTER"
	case CodeIO:
		return "IO_ERROR"
	case CodeInvalidHexDigit:
		return "INVALID_HEX_DIGIT"
	case CodeInvalidUTF8:
		return "INVALID_UTF8"
	case CodeInvalidFormat:
		return "INVALID_FORMAT"
	case CodeOverflow:
		return "OVERFLOW"
	case CodePluginLoadError:
		return "PLUGIN_LOAD_ERROR"
	case CodeInitializationFailure:
		return "INITIALIZATION_FAILURE"
	case CodeInvalidConfig:
		return "INVALID_CONFIG"
	case CodeExpectedToken:
		return "EXPECTED_TOKEN"
	default:
		return "Code(" + strconv.FormatUint(uint64(c), 10) + ")"
	}
}

// Kind is the closed set of error variants. Only the types declared in this
// file implement it.
type Kind interface {
	kind()
}

// Unknown is the fallback for failures that fit no other variant.
type Unknown struct{}

// NullPointer reports a required handle or pointer argument that was null.
type NullPointer struct{}

// IO wraps a filesystem or stream failure. Path is empty when the failure is
// not tied to a named file.
type IO struct {
	Err  error
	Path string
}

// InvalidHexDigit carries the offending character.
type InvalidHexDigit struct {
	Char rune
}

// InvalidUTF8 reports a foreign string that was not valid UTF-8.
type InvalidUTF8 struct{}

// InvalidFormat reports a value with no parseable content.
type InvalidFormat struct{}

// Overflow reports a numeric value that exceeded its target width.
type Overflow struct{}

// PluginLoadError reports a library that failed to load or lacked the
// identification symbol.
type PluginLoadError struct{}

// InitializationFailure reports a failed bring-up sequence. It normally
// wraps a more specific cause.
type InitializationFailure struct{}

// InvalidConfig reports a malformed configuration. Line is 1-indexed; zero
// means the failure is not tied to a line.
type InvalidConfig struct {
	Line int
}

// ExpectedToken reports a missing delimiter.
type ExpectedToken struct {
	Char rune
}

func (Unknown) kind()               {}
func (NullPointer) kind()           {}
func (IO) kind()                    {}
func (InvalidHexDigit) kind()       {}
func (InvalidUTF8) kind()           {}
func (InvalidFormat) kind()         {}
func (Overflow) kind()              {}
func (PluginLoadError) kind()       {}
func (InitializationFailure) kind() {}
func (InvalidConfig) kind()         {}
func (ExpectedToken) kind()         {}

// CodeOfKind maps a variant to its code. A nil kind is treated as Unknown.
func CodeOfKind(k Kind) Code {
	switch k.(type) {
	case Unknown:
		return CodeUnknown
	case NullPointer:
		return CodeNullPointer
	case IO:
		return CodeIO
	case InvalidHexDigit:
		return CodeInvalidHexDigit
	case InvalidUTF8:
		return CodeInvalidUTF8
	case InvalidFormat:
		return CodeInvalidFormat
	case Overflow:
		return CodeOverflow
	case PluginLoadError:
		return CodePluginLoadError
	case InitializationFailure:
		return CodeInitializationFailure
	case InvalidConfig:
		return CodeInvalidConfig
	case ExpectedToken:
		return CodeExpectedToken
	default:
		return CodeUnknown
	}
}

// Render returns the human-readable line for a variant.
func Render(k Kind) string {
	switch k := k.(type) {
	case NullPointer:
		return "Null pointer"
	case IO:
		msg := "<nil>"
		if k.Err != nil {
			msg = k.Err.Error()
		}
		if k.Path != "" {
			return fmt.Sprintf("IO error: '%s': %s", k.Path, msg)
		}
		return "IO error: " + msg
	case InvalidHexDigit:
		return fmt.Sprintf("Invalid hex digit: '%c'", k.Char)
	case InvalidUTF8:
		return "Invalid UTF-8"
	case InvalidFormat:
		return "Invalid format"
	case Overflow:
		return "Overflow"
	case PluginLoadError:
		return "Plugin load error"
	case InitializationFailure:
		return "Initialization failure"
	case InvalidConfig:
		if k.Line > 0 {
			return fmt.Sprintf("Invalid config (line %d)", k.Line)
		}
		return "Invalid config"
	case ExpectedToken:
		return fmt.Sprintf("Expected '%c'", k.Char)
	default:
		return "Unknown error"
	}
}
