package assert

import "fmt"

// Invariant panics with the formatted message when cond is false, in every build. Use it for
// internal consistency checks whose failure means state is already corrupt.
func Invariant(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf("invariant violated: "+format, args...))
	}
}
