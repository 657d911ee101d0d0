package sections

import (
	"encoding/json"
	"slices"
)

// Key identifies a labeled content block of the document.
type Key string

// Reorderable sections, in canonical order.
const (
	Summary    Key = "summary"
	Experience Key = "experience"
	Education  Key = "education"
	Skills     Key = "skills"
	Languages  Key = "languages"
	Interests  Key = "interests"
)

// Structural sections. They are never part of an Order but can carry sizing
// overrides.
const (
	Header   Key = "header"
	Contact  Key = "contact"
	Projects Key = "projects"
	Sidebar  Key = "sidebar"
)

var reorderable = []Key{Summary, Experience, Education, Skills, Languages, Interests}

var structural = []Key{Header, Contact, Projects, Sidebar}

// Order is a permutation of the reorderable section keys.
type Order []Key

// Default returns the canonical section order.
func Default() Order {
	return slices.Clone(Order(reorderable))
}

// Reorderable reports whether k can appear in an Order.
func Reorderable(k Key) bool {
	return slices.Contains(reorderable, k)
}

// Known reports whether k is any section key, reorderable or structural.
func Known(k Key) bool {
	return Reorderable(k) || slices.Contains(structural, k)
}

// All returns every known key: reorderable keys first, then structural ones.
func All() []Key {
	out := make([]Key, 0, len(reorderable)+len(structural))
	out = append(out, reorderable...)
	return append(out, structural...)
}

// Valid reports whether o is a permutation of exactly the reorderable keys.
func (o Order) Valid() bool {
	if len(o) != len(reorderable) {
		return false
	}
	seen := make(map[Key]struct{}, len(o))
	for _, k := range o {
		if !Reorderable(k) {
			return false
		}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// Filter returns the keys of o that are in keep, preserving o's order.
func (o Order) Filter(keep ...Key) []Key {
	out := make([]Key, 0, len(keep))
	for _, k := range o {
		if slices.Contains(keep, k) {
			out = append(out, k)
		}
	}
	return out
}

// Equal reports whether both orders hold the same keys in the same positions.
func (o Order) Equal(other Order) bool {
	return slices.Equal(o, other)
}

// Reorder removes dragged and reinserts it at the index target held before the
// move, so dragged takes over target's original slot. Equal keys or an
// untracked key leave the order unchanged. The input is never modified; the
// caller swaps in the returned order as a whole.
func Reorder(order Order, dragged, target Key) Order {
	out := slices.Clone(order)
	if dragged == target {
		return out
	}
	from := slices.Index(out, dragged)
	to := slices.Index(out, target)
	if from < 0 || to < 0 {
		return out
	}

	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, dragged)
}

// Parse decodes a persisted order. Anything that is not a permutation of the
// reorderable keys yields the default order.
func Parse(raw string) Order {
	var keys []Key
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return Default()
	}
	order := Order(keys)
	if !order.Valid() {
		return Default()
	}
	return order
}

// Encode serializes o as a JSON array.
func Encode(o Order) string {
	data, err := json.Marshal([]Key(o))
	if err != nil {
		return "[]"
	}
	return string(data)
}
