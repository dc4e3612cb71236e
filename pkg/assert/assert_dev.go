//go:build !release

package assert

import "fmt"

// That panics with the formatted message when cond is false. It always returns true when it
// returns at all, so call sites can be written the same way for dev and release builds:
//
//	if !assert.That(ok, "entity %s not found", id) {
//		return
//	}
func That(cond bool, format string, args ...any) bool { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
	return true
}
