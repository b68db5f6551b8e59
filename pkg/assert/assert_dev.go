//go:build !release

// Package assert checks internal invariants. Violations panic in development builds and are
// compiled out with the release build tag.
package assert

import "fmt"

func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
