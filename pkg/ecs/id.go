package ecs

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// EntityID is the externally visible identity of an entity. It is an opaque 128-bit value that
// is unique within a World. Sequential IDs use the low 8 bytes and leave the high 8 bytes zero,
// anything else is rendered as a UUID.
type EntityID [16]byte

// SequentialID returns the EntityID for the n-th sequential entity.
func SequentialID(n uint64) EntityID {
	var id EntityID
	binary.BigEndian.PutUint64(id[8:], n)
	return id
}

// ParseEntityID parses the output of EntityID.String.
func ParseEntityID(s string) (EntityID, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return SequentialID(n), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, eris.Wrapf(err, "invalid entity id %q", s)
	}
	return EntityID(u), nil
}

// IsZero reports whether id is the zero ID. The zero ID is never handed out by a generator.
func (id EntityID) IsZero() bool {
	return id == EntityID{}
}

// Compare returns -1, 0 or 1 depending on whether id sorts before, equal to or after other.
func (id EntityID) Compare(other EntityID) int {
	return bytes.Compare(id[:], other[:])
}

func (id EntityID) sequential() (uint64, bool) {
	if binary.BigEndian.Uint64(id[:8]) != 0 {
		return 0, false
	}
	return binary.BigEndian.Uint64(id[8:]), true
}

func (id EntityID) String() string {
	if n, ok := id.sequential(); ok {
		return strconv.FormatUint(n, 10)
	}
	return uuid.UUID(id).String()
}

// IDGenerator produces entity IDs. Generators are not trusted for uniqueness, the World rejects
// duplicates on insertion.
type IDGenerator interface {
	Next() EntityID
}

// IDReserver is implemented by generators that must skip IDs inserted by other means, such as
// entities restored from a snapshot.
type IDReserver interface {
	Reserve(id EntityID)
}

// SequentialIDs hands out 1, 2, 3, ... in order.
type SequentialIDs struct {
	next uint64
}

var (
	_ IDGenerator = (*SequentialIDs)(nil)
	_ IDReserver  = (*SequentialIDs)(nil)
)

// NewSequentialIDs returns a generator whose first ID is 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{next: 1}
}

func (g *SequentialIDs) Next() EntityID {
	id := SequentialID(g.next)
	g.next++
	return id
}

// Reserve makes sure id is never returned by Next.
func (g *SequentialIDs) Reserve(id EntityID) {
	if n, ok := id.sequential(); ok && n >= g.next {
		g.next = n + 1
	}
}

// UUIDs hands out random version 4 UUIDs.
type UUIDs struct{}

var _ IDGenerator = UUIDs{}

func (UUIDs) Next() EntityID {
	return EntityID(uuid.New())
}
