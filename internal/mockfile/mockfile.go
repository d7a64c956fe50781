// Package mockfile loads static mock definitions from TOML or YAML files.
//
//	[mocks.curl]
//	stdout = "Frog\n"
//
//	[mocks.git]
//	responses = [
//	  { stdout = "main\n" },
//	  { code = 1, stderr = "fatal: not a git repository\n" },
//	]
//
// An entry either describes one response used for every call, or an ordered
// list of responses where each call consumes the next and the last one repeats.
package mockfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ruffel/shellmock"
	"github.com/ruffel/shellmock/internal/alias"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a mock file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for files whose extension is not .toml, .yaml or .yml.
var ErrUnknownFormat = errors.New("unknown mock file format")

// ErrInvalidEntry is returned for entries that cannot be turned into a mock.
var ErrInvalidEntry = errors.New("invalid mock entry")

// Response is one canned reply.
type Response struct {
	Code   int    `toml:"code" yaml:"code"`
	Stdout string `toml:"stdout" yaml:"stdout"`
	Stderr string `toml:"stderr" yaml:"stderr"`
}

// Entry defines the mock for one command.
type Entry struct {
	Response  `yaml:",inline"`
	Responses []Response `toml:"responses" yaml:"responses"`
}

// File is a parsed mock file.
type File struct {
	Mocks map[string]Entry `toml:"mocks" yaml:"mocks"`
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads and validates the mock file at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock file: %w", err)
	}

	f, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Decode parses and validates data. Unknown keys are rejected.
func Decode(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		// An empty document leaves f untouched.
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks every entry name and exit code.
func (f *File) Validate() error {
	for name, entry := range f.Mocks {
		if err := alias.ValidateName(name); err != nil {
			return err
		}

		if len(entry.Responses) > 0 && entry.Response != (Response{}) {
			return fmt.Errorf("%w: %q sets both a response and a responses list", ErrInvalidEntry, name)
		}

		for _, r := range entry.all() {
			if r.Code < 0 || r.Code > 255 {
				return fmt.Errorf("%w: %q exit code %d out of range 0-255", ErrInvalidEntry, name, r.Code)
			}
		}
	}

	return nil
}

// Mocks returns a mock table serving the file's responses. Each table keeps
// its own position in every responses list.
func (f *File) Mocks() shellmock.Mocks {
	mocks := make(shellmock.Mocks, len(f.Mocks))

	for name, entry := range f.Mocks {
		mocks[name] = newSequence(entry.all()).next
	}

	return mocks
}

func (e Entry) all() []Response {
	if len(e.Responses) > 0 {
		return e.Responses
	}

	return []Response{e.Response}
}

type sequence struct {
	mu        sync.Mutex
	responses []Response
	pos       int
}

func newSequence(responses []Response) *sequence {
	return &sequence{responses: responses}
}

func (s *sequence) next(...string) shellmock.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.responses[s.pos]
	if s.pos < len(s.responses)-1 {
		s.pos++
	}

	return shellmock.Output{Code: r.Code, Stdout: r.Stdout, Stderr: r.Stderr}
}
