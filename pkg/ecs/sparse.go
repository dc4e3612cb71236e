package ecs

// sparseCapacity is the initial capacity of a sparse set.
const sparseCapacity = 1024

// sparseTombstone marks an empty slot.
const sparseTombstone = -1

// sparseSet maps entity handles to dense positions. Handles are small, reused integers handed out
// by the world, so a flat slice indexed by handle beats a map on every lookup.
type sparseSet []int

func newSparseSet() sparseSet {
	return make(sparseSet, 0, sparseCapacity)
}

// get returns the value stored for key.
func (s sparseSet) get(key uint32) (int, bool) {
	if int(key) >= len(s) {
		return 0, false
	}
	v := s[key]
	return v, v != sparseTombstone
}

// set stores value for key, growing the set if needed. value must be non-negative.
func (s *sparseSet) set(key uint32, value int) {
	if int(key) >= len(*s) {
		s.grow(int(key) + 1)
	}
	(*s)[key] = value
}

// remove clears key. Returns false if the key was not set.
func (s sparseSet) remove(key uint32) bool {
	if _, ok := s.get(key); !ok {
		return false
	}
	s[key] = sparseTombstone
	return true
}

func (s *sparseSet) grow(size int) {
	old := len(*s)
	if size <= cap(*s) {
		*s = (*s)[:size]
	} else {
		grown := make(sparseSet, size, max(size, 2*cap(*s)))
		copy(grown, *s)
		*s = grown
	}
	for i := old; i < size; i++ {
		(*s)[i] = sparseTombstone
	}
}
