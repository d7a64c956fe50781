// Package shellmocktest provides test helpers for code that drives shellmock:
// a testify-backed Recorder for mock functions, a script writer, and a contract
// suite that any SpawnFunc must pass.
//
// Contracts spawn real processes. The running test binary serves as the
// messenger, so the calling test package must import shellmock (directly or
// through this package) for its init hook to be linked in.
package shellmocktest
