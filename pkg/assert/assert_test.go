//go:build !release

package assert_test

import (
	"testing"

	"github.com/argus-labs/reactor/pkg/assert"
	testify "github.com/stretchr/testify/assert"
)

func TestThat(t *testing.T) {
	t.Parallel()

	testify.True(t, assert.That(true, "never fails"))
	testify.PanicsWithValue(t, "entity 7 not found", func() {
		assert.That(false, "entity %d not found", 7)
	})
}

func TestInvariant(t *testing.T) {
	t.Parallel()

	testify.NotPanics(t, func() { assert.Invariant(true, "fine") })
	testify.PanicsWithValue(t, "invariant violated: slot 3 missing", func() {
		assert.Invariant(false, "slot %d missing", 3)
	})
}
