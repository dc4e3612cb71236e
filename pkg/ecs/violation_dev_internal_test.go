//go:build !release

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertViolation checks that fn breaks a contract. Dev builds panic on contract violations.
func assertViolation(t *testing.T, fn func(), msgAndArgs ...any) {
	t.Helper()
	assert.Panics(t, fn, msgAndArgs...)
}
