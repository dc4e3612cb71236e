// Package testutils holds helpers for randomized and exhaustive tests.
package testutils

import (
	"math/rand/v2"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"
)

// seed is fixed for the whole test binary. Set REACTOR_TEST_SEED to replay a failing run.
var seed = sync.OnceValue(func() uint64 {
	if s, err := strconv.ParseUint(os.Getenv("REACTOR_TEST_SEED"), 0, 64); err == nil {
		return s
	}
	return uint64(time.Now().UnixNano()) //nolint:gosec // it's ok
})

// NewRand returns a PRNG for t. The seed is logged so a failure can be reproduced.
func NewRand(t *testing.T) *rand.Rand {
	t.Helper()
	s := seed()
	t.Logf("to reproduce: REACTOR_TEST_SEED=0x%x", s)
	return rand.New(rand.NewPCG(s, s)) //nolint:gosec // weak RNG is fine for tests
}

// RandMapKey returns a random key of a non-empty map.
func RandMapKey[K comparable, V any](r *rand.Rand, m map[K]V) K {
	skip := r.IntN(len(m))
	for k := range m {
		if skip == 0 {
			return k
		}
		skip--
	}
	panic("testutils: RandMapKey called with an empty map")
}

// RandElem returns a random element of a non-empty slice.
func RandElem[T any](r *rand.Rand, s []T) T {
	return s[r.IntN(len(s))]
}

// WeightedOp is implemented by operation enums whose value doubles as their relative weight.
type WeightedOp interface {
	~uint8 | ~uint16 | ~uint32 | ~int
}

// RandWeightedOp picks one of ops with probability proportional to its value.
func RandWeightedOp[T WeightedOp](r *rand.Rand, ops []T) T {
	total := 0
	for _, op := range ops {
		total += int(op)
	}
	pick := r.IntN(total)
	for _, op := range ops {
		if pick < int(op) {
			return op
		}
		pick -= int(op)
	}
	panic("unreachable")
}
