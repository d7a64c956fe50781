package shellmocktest

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/ruffel/shellmock"
)

// Standard categories for grouping tests.
const (
	CategoryCore        = "core"
	CategoryEnvironment = "environment"
	CategoryStdio       = "stdio"
	CategoryErrors      = "errors"
)

// T is the minimal interface required for testify/assert, require and mock.
type T interface {
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
	FailNow()
	Skipf(format string, args ...any)
	Context() context.Context
	TempDir() string
	Name() string
}

// SpawnFunc runs a command with mocks to completion. shellmock.Spawn satisfies it.
type SpawnFunc func(ctx context.Context, cmd *shellmock.Command, opts ...shellmock.Option) (*shellmock.Result, error)

// TestCase defines a single behavioral contract requirement.
type TestCase struct {
	Category    string
	Name        string
	Description string
	Prereq      func(t T) (ok bool, reason string)
	Run         func(t T, spawn SpawnFunc)
}

// ID returns the stable, globally unique contract identifier.
func (tc TestCase) ID() string {
	return fmt.Sprintf("%s/%s", tc.Category, tc.Name)
}

// Verify runs every contract against spawn.
func Verify(t *testing.T, spawn SpawnFunc) {
	t.Helper()

	for _, tc := range AllContracts() {
		t.Run(tc.ID(), func(t *testing.T) {
			if tc.Prereq != nil {
				ok, reason := tc.Prereq(t)
				if !ok {
					t.Skipf("prereq unmet: %s", reason)
				}
			}

			tc.Run(t, spawn)
		})
	}
}

// needsShell skips contracts that run POSIX sh on hosts without one.
func needsShell(_ T) (bool, string) {
	if _, err := exec.LookPath("sh"); err != nil {
		return false, "sh not found on PATH"
	}

	return true, ""
}

// AllContracts returns all test cases for the contract test suite.
func AllContracts() []TestCase {
	const initialCapacity = 20

	contracts := make([]TestCase, 0, initialCapacity)

	contracts = append(contracts, coreContracts()...)
	contracts = append(contracts, environmentContracts()...)
	contracts = append(contracts, stdioContracts()...)
	contracts = append(contracts, errorContracts()...)

	return contracts
}
