package harness

import (
	"strconv"

	"github.com/matzehuels/harnesskit/pkg/errors"
)

// Designators issues unique, human-meaningful component identifiers such as
// "X1", "C2" or "CB3". Each harness owns exactly one Designators; nothing is
// shared between harnesses.
//
// The zero value is not usable - use NewDesignators.
// Designators is not safe for concurrent use.
type Designators struct {
	counters map[string]int
	used     map[string]struct{}
}

// NewDesignators creates an empty allocator.
func NewDesignators() *Designators {
	return &Designators{
		counters: make(map[string]int),
		used:     make(map[string]struct{}),
	}
}

// Generate reserves and returns the next free designator for kind and category.
//
// The per-prefix counter is advanced until prefix+n has not been issued or
// registered, so designators registered out of band with the same prefix
// (for example a user-supplied "X2") are skipped rather than duplicated.
func (d *Designators) Generate(kind Kind, category Category) string {
	prefix := Prefix(kind, category)
	for {
		d.counters[prefix]++
		id := prefix + strconv.Itoa(d.counters[prefix])
		if _, taken := d.used[id]; !taken {
			d.used[id] = struct{}{}
			return id
		}
	}
}

// Register reserves an arbitrary designator.
// Returns a DUPLICATE_IDENTIFIER error if it is already reserved.
func (d *Designators) Register(id string) error {
	if _, taken := d.used[id]; taken {
		return errors.New(errors.ErrCodeDuplicateIdentifier, "designator %q is already in use", id)
	}
	d.used[id] = struct{}{}
	return nil
}

// IsUsed reports whether id has been generated or registered.
func (d *Designators) IsUsed(id string) bool {
	_, taken := d.used[id]
	return taken
}

// Reset forgets all counters and reservations.
func (d *Designators) Reset() {
	clear(d.counters)
	clear(d.used)
}
