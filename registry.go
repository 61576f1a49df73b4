package goFlags

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

// Registry is the immutable name→mask table shared by every [BitField] of one
// flag catalog. It is built exactly once by [NewRegistry] and never mutated
// afterwards, so concurrent reads need no locking.
type Registry struct {
	typeName     string
	flags        []Flag // declaration order, single-bit flags only
	byName       map[string]uint64
	aliases      map[string]uint64
	defaultValue uint64
	allBits      uint64
}

// NewRegistry runs the one-time definition pass over the declared flags and
// produces the catalog's registry. typeName appears in diagnostics and error
// messages ("value to set for TypeName must be a bool").
//
// The pass rejects malformed declarations eagerly: empty or duplicate names,
// masks that are zero or wider than one bit, bit positions claimed twice, and
// aliases referencing bits no flag declares.
func NewRegistry(typeName string, flags ...Flag) (*Registry, error) {
	if typeName == "" {
		return nil, errors.New("registry type name cannot be empty")
	}

	r := &Registry{
		typeName: typeName,
		byName:   make(map[string]uint64, len(flags)),
		aliases:  make(map[string]uint64),
	}

	for _, f := range flags {
		if f.alias {
			continue
		}
		if f.name == "" {
			return nil, errors.New("flag name cannot be empty")
		}
		if _, exists := r.byName[f.name]; exists {
			return nil, fmt.Errorf("%w: name %q declared twice", ErrDuplicateFlag, f.name)
		}
		if f.mask == 0 || bits.OnesCount64(f.mask) != 1 {
			return nil, fmt.Errorf("%w: flag %q mask %#x is not a single bit", ErrInvalidMask, f.name, f.mask)
		}
		if r.allBits&f.mask != 0 {
			return nil, fmt.Errorf("%w: flag %q reuses bit %#x", ErrDuplicateFlag, f.name, f.mask)
		}
		r.byName[f.name] = f.mask
		r.allBits |= f.mask
		if f.defaultOn {
			r.defaultValue |= f.mask
		}
		r.flags = append(r.flags, f)
	}

	// Aliases resolve after all single-bit flags so declaration order between
	// the two does not matter.
	for _, f := range flags {
		if !f.alias {
			continue
		}
		if f.name == "" {
			return nil, errors.New("alias name cannot be empty")
		}
		if _, exists := r.byName[f.name]; exists {
			return nil, fmt.Errorf("%w: name %q declared twice", ErrDuplicateFlag, f.name)
		}
		if _, exists := r.aliases[f.name]; exists {
			return nil, fmt.Errorf("%w: name %q declared twice", ErrDuplicateFlag, f.name)
		}
		if f.mask == 0 {
			return nil, fmt.Errorf("%w: alias %q mask is zero", ErrInvalidMask, f.name)
		}
		if undeclared := f.mask &^ r.allBits; undeclared != 0 {
			return nil, fmt.Errorf("%w: alias %q references undeclared bits %#x", ErrInvalidMask, f.name, undeclared)
		}
		r.aliases[f.name] = f.mask
		if f.defaultOn {
			r.defaultValue |= f.mask
		}
	}

	return r, nil
}

// MustRegistry is like [NewRegistry] but panics on error. Intended for
// package-level catalog variables, where a malformed declaration is a
// programming error.
func MustRegistry(typeName string, flags ...Flag) *Registry {
	r, err := NewRegistry(typeName, flags...)
	if err != nil {
		panic(err)
	}
	return r
}

// TypeName returns the catalog's diagnostic type name.
func (r *Registry) TypeName() string { return r.typeName }

// Count returns the number of declared single-bit flags, aliases excluded.
func (r *Registry) Count() int { return len(r.flags) }

// DefaultValue returns the OR of every on-by-default flag's mask, zero if none.
func (r *Registry) DefaultValue() uint64 { return r.defaultValue }

// AllBits returns the OR of every declared flag's mask: the catalog's bit
// universe. Deriving an "everything on" value from AllBits (rather than ^0)
// is what keeps undefined bit positions out of aggregate values.
func (r *Registry) AllBits() uint64 { return r.allBits }

// Mask returns the mask for the named single-bit flag.
func (r *Registry) Mask(name string) (uint64, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names returns the declared flag names in declaration order, aliases excluded.
func (r *Registry) Names() []string {
	names := make([]string, len(r.flags))
	for i, f := range r.flags {
		names[i] = f.name
	}
	return names
}

// ValidFlags returns a copy of the name→mask table, aliases excluded.
func (r *Registry) ValidFlags() map[string]uint64 {
	out := make(map[string]uint64, len(r.byName))
	for name, mask := range r.byName {
		out[name] = mask
	}
	return out
}

// resolve looks a name up across flags and aliases.
func (r *Registry) resolve(name string) (uint64, bool) {
	if m, ok := r.byName[name]; ok {
		return m, true
	}
	m, ok := r.aliases[name]
	return m, ok
}

// New returns a bit field holding the catalog's default value.
func (r *Registry) New() *BitField {
	return &BitField{registry: r, value: r.defaultValue}
}

// FromValue returns a bit field holding exactly v. The value is not checked
// against the catalog, so unknown bits supplied by external decoders
// round-trip untouched.
func (r *Registry) FromValue(v uint64) *BitField {
	return &BitField{registry: r, value: v}
}

// Full returns a bit field with every declared flag enabled and nothing else.
func (r *Registry) Full() *BitField {
	return &BitField{registry: r, value: r.allBits}
}

// Empty returns a bit field with no bits set.
func (r *Registry) Empty() *BitField {
	return &BitField{registry: r}
}

// NewWith starts from the default value and applies the supplied named flags.
// Every name must be declared and every value must be a bool; the first
// violation aborts construction. Names are applied in lexicographic order so
// that rejection among several bad entries is deterministic.
func (r *Registry) NewWith(values map[string]any) (*BitField, error) {
	b := r.New()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.Set(name, values[name]); err != nil {
			return nil, err
		}
	}
	return b, nil
}
