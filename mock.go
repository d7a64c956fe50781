package shellmock

import (
	"maps"
	"slices"
)

// Response is the value a mock returns. It is one of ExitCode, Stdout or Output.
// A nil Response is treated as an empty Output.
type Response interface {
	output() Output
}

// ExitCode is a mock response that only sets the exit code.
type ExitCode int

// Stdout is a mock response that only writes to stdout.
type Stdout string

// Output is a structured mock response. Zero fields are the defaults:
// code 0 and empty streams.
type Output struct {
	Code   int
	Stdout string
	Stderr string
}

func (c ExitCode) output() Output { return Output{Code: int(c)} }

func (s Stdout) output() Output { return Output{Stdout: string(s)} }

func (o Output) output() Output { return o }

// MockFunc produces the result for one intercepted invocation.
// args are the arguments the command was invoked with, verbatim.
type MockFunc func(args ...string) Response

// Mocks maps command names to their mock functions.
type Mocks map[string]MockFunc

// Normalize converts any Response into an Output.
// String values are never trimmed.
func Normalize(r Response) Output {
	switch v := r.(type) {
	case nil:
		return Output{}
	case *Output:
		if v == nil {
			return Output{}
		}

		return *v
	default:
		return v.output()
	}
}

// Names returns the mocked command names in sorted order.
func (m Mocks) Names() []string {
	return slices.Sorted(maps.Keys(m))
}
