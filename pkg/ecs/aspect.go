package ecs

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/kelindar/bitmap"
)

type termKind uint8

const (
	termAll termKind = iota
	termAny
	termExclude
)

// AspectTerm is one clause of an aspect, created with All, Any or Exclude.
type AspectTerm struct {
	kind termKind
	typ  reflect.Type
}

// All requires T to be present and enabled.
func All[T Component]() AspectTerm { return AspectTerm{kind: termAll, typ: reflect.TypeFor[T]()} }

// Any requires at least one of the Any components to be present and enabled.
func Any[T Component]() AspectTerm { return AspectTerm{kind: termAny, typ: reflect.TypeFor[T]()} }

// Exclude requires T to be absent or disabled.
func Exclude[T Component]() AspectTerm {
	return AspectTerm{kind: termExclude, typ: reflect.TypeFor[T]()}
}

// Aspect is a predicate over component masks. An entity matches when it has every component in
// the all set, at least one in the any set (if the any set is non-empty) and none in the exclude
// set. Aspects are immutable values.
type Aspect struct {
	all     bitmap.Bitmap
	any     bitmap.Bitmap
	exclude bitmap.Bitmap
}

// NewAspect builds an aspect from terms, registering component types in reg as needed.
func NewAspect(reg *Registry, terms ...AspectTerm) Aspect {
	var a Aspect
	for _, term := range terms {
		id, ok := reg.mustRegister(term.typ)
		if !ok {
			continue
		}
		switch term.kind {
		case termAll:
			a.all.Set(id)
		case termAny:
			a.any.Set(id)
		case termExclude:
			a.exclude.Set(id)
		}
	}
	return a.normalized()
}

// NewAspectFromIDs builds an aspect from raw component IDs.
func NewAspectFromIDs(all, anyOf, exclude []ComponentID) Aspect {
	var a Aspect
	for _, id := range all {
		a.all.Set(id)
	}
	for _, id := range anyOf {
		a.any.Set(id)
	}
	for _, id := range exclude {
		a.exclude.Set(id)
	}
	return a.normalized()
}

// normalized strips trailing zero words so equal sets have equal representations.
func (a Aspect) normalized() Aspect {
	return Aspect{all: trim(a.all), any: trim(a.any), exclude: trim(a.exclude)}
}

func trim(b bitmap.Bitmap) bitmap.Bitmap {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	if n == 0 {
		return nil
	}
	return b[:n:n]
}

// Matches reports whether a component mask satisfies the aspect.
func (a Aspect) Matches(mask bitmap.Bitmap) bool {
	for i, want := range a.all {
		var have uint64
		if i < len(mask) {
			have = mask[i]
		}
		if have&want != want {
			return false
		}
	}
	if len(a.any) > 0 && !intersects(a.any, mask) {
		return false
	}
	return !intersects(a.exclude, mask)
}

// MatchesEntity reports whether the entity's current component mask satisfies the aspect. It
// ignores the entity's enabled and removed state.
func (a Aspect) MatchesEntity(e *Entity) bool {
	return a.Matches(e.mask)
}

func intersects(a, b bitmap.Bitmap) bool {
	n := min(len(a), len(b))
	for i := range n {
		if a[i]&b[i] != 0 {
			return true
		}
	}
	return false
}

// Compare orders aspects totally. Two aspects compare equal only if all three sets are equal.
func (a Aspect) Compare(other Aspect) int {
	if c := compareSets(a.all, other.all); c != 0 {
		return c
	}
	if c := compareSets(a.any, other.any); c != 0 {
		return c
	}
	return compareSets(a.exclude, other.exclude)
}

// Equal reports whether two aspects describe the same predicate syntactically.
func (a Aspect) Equal(other Aspect) bool {
	return a.Compare(other) == 0
}

func compareSets(a, b bitmap.Bitmap) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// key returns a canonical string for use as a map key.
func (a Aspect) key() string {
	var sb strings.Builder
	for i, set := range []bitmap.Bitmap{a.all, a.any, a.exclude} {
		if i > 0 {
			sb.WriteByte('|')
		}
		for j, word := range set {
			if j > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(strconv.FormatUint(word, 16))
		}
	}
	return sb.String()
}

// AllOf returns the component IDs the aspect requires.
func (a Aspect) AllOf() []ComponentID { return members(a.all) }

// AnyOf returns the component IDs of which the aspect requires at least one.
func (a Aspect) AnyOf() []ComponentID { return members(a.any) }

// NoneOf returns the component IDs the aspect excludes.
func (a Aspect) NoneOf() []ComponentID { return members(a.exclude) }

func members(b bitmap.Bitmap) []ComponentID {
	ids := make([]ComponentID, 0, b.Count())
	b.Range(func(x uint32) {
		ids = append(ids, x)
	})
	slices.Sort(ids)
	return ids
}

func (a Aspect) String() string {
	format := func(ids []ComponentID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return "all" + format(a.AllOf()) + " any" + format(a.AnyOf()) + " exclude" + format(a.NoneOf())
}
