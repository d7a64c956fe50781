package shellmocktest

import (
	"github.com/ruffel/shellmock"
	"github.com/stretchr/testify/mock"
)

// Recorder implements mock functions on top of testify/mock.
//
//	rec := shellmocktest.NewRecorder()
//	rec.On("Call", "curl", []string{"-s", "example.org"}).Return(shellmock.Stdout("ok"))
//	res, err := shellmock.SpawnShell(ctx, script, shellmock.WithMocks(rec.Mocks("curl")))
//	rec.AssertExpectations(t)
type Recorder struct {
	mock.Mock
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Call records an intercepted invocation and returns the configured response.
// A nil return value is a successful call with no output.
func (r *Recorder) Call(name string, args []string) shellmock.Response {
	ret := r.Called(name, args)
	if ret.Get(0) == nil {
		return nil
	}

	return ret.Get(0).(shellmock.Response)
}

// Func returns a mock function for name that records through Call.
func (r *Recorder) Func(name string) shellmock.MockFunc {
	return func(args ...string) shellmock.Response {
		if args == nil {
			args = []string{}
		}

		return r.Call(name, args)
	}
}

// Mocks returns a mock table routing every name through the Recorder.
func (r *Recorder) Mocks(names ...string) shellmock.Mocks {
	mocks := make(shellmock.Mocks, len(names))

	for _, name := range names {
		mocks[name] = r.Func(name)
	}

	return mocks
}
