//go:build release

package assert

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// That logs the formatted message as a warning when cond is false and reports whether the
// condition held. Callers skip the offending operation when it returns false.
func That(cond bool, format string, args ...any) bool { //nolint:goprintffuncname // it's ok
	if !cond {
		log.Warn().Str("component", "assert").Msg(fmt.Sprintf(format, args...))
	}
	return cond
}
