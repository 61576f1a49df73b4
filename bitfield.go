package goFlags

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"iter"
)

// BitField wraps a single uint64 value and interprets it through the catalog's
// registry. Every instance of one catalog shares the same registry by
// reference.
//
// A BitField is a plain value holder with no internal locking: the binary
// operators (And, Or, Xor, Invert) allocate fresh instances and are safe to
// use across goroutines reading the operands, while the in-place variants
// mutate the receiver and require the caller to serialize access to it.
type BitField struct {
	registry *Registry
	value    uint64
}

// Value returns the raw value. This is the only artifact that is ever
// persisted or transmitted.
func (b *BitField) Value() uint64 { return b.value }

// Registry returns the owning catalog registry.
func (b *BitField) Registry() *Registry { return b.registry }

// Get reports whether the named flag is enabled: true iff every bit of the
// flag's mask is set. Unknown names fail with [ErrInvalidFlagName].
func (b *BitField) Get(name string) (bool, error) {
	mask, ok := b.registry.resolve(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidFlagName, name)
	}
	return b.value&mask == mask, nil
}

// Set assigns the named flag in place. value must be exactly a bool; anything
// else fails with [ErrInvalidFlagValueType] naming the catalog type. Unknown
// names fail with [ErrInvalidFlagName]. Setting an alias sets or clears every
// member bit.
func (b *BitField) Set(name string, value any) error {
	mask, ok := b.registry.resolve(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFlagName, name)
	}
	on, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: value to set for %s must be a bool, got %T", ErrInvalidFlagValueType, b.registry.typeName, value)
	}
	if on {
		b.value |= mask
	} else {
		b.value &^= mask
	}
	return nil
}

// otherTypeName names the right-hand operand in mismatch diagnostics.
func otherTypeName(b *BitField) string {
	if b == nil {
		return "<nil>"
	}
	return b.registry.typeName
}

func (b *BitField) sameCatalog(other *BitField) error {
	if other == nil || other.registry != b.registry {
		return fmt.Errorf("%w: %s and %s", ErrMismatchedFlagSets, b.registry.typeName, otherTypeName(other))
	}
	return nil
}

// And returns a new bit field holding the bitwise AND of both values. Both
// operands must belong to the same catalog.
func (b *BitField) And(other *BitField) (*BitField, error) {
	if err := b.sameCatalog(other); err != nil {
		return nil, err
	}
	return &BitField{registry: b.registry, value: b.value & other.value}, nil
}

// Or returns a new bit field holding the bitwise OR of both values.
func (b *BitField) Or(other *BitField) (*BitField, error) {
	if err := b.sameCatalog(other); err != nil {
		return nil, err
	}
	return &BitField{registry: b.registry, value: b.value | other.value}, nil
}

// Xor returns a new bit field holding the bitwise XOR of both values.
func (b *BitField) Xor(other *BitField) (*BitField, error) {
	if err := b.sameCatalog(other); err != nil {
		return nil, err
	}
	return &BitField{registry: b.registry, value: b.value ^ other.value}, nil
}

// AndAssign replaces the receiver's value with the bitwise AND of both values.
// The receiver keeps its identity; no new instance is allocated.
func (b *BitField) AndAssign(other *BitField) error {
	if err := b.sameCatalog(other); err != nil {
		return err
	}
	b.value &= other.value
	return nil
}

// OrAssign replaces the receiver's value with the bitwise OR of both values.
func (b *BitField) OrAssign(other *BitField) error {
	if err := b.sameCatalog(other); err != nil {
		return err
	}
	b.value |= other.value
	return nil
}

// XorAssign replaces the receiver's value with the bitwise XOR of both values.
func (b *BitField) XorAssign(other *BitField) error {
	if err := b.sameCatalog(other); err != nil {
		return err
	}
	b.value ^= other.value
	return nil
}

// Invert returns a new bit field with every declared flag toggled. The
// complement is restricted to the catalog's bit universe: positions no flag
// declares are never set, even when present in the operand. The operand is
// not mutated.
func (b *BitField) Invert() *BitField {
	return &BitField{registry: b.registry, value: ^b.value & b.registry.allBits}
}

// Equal reports whether both bit fields belong to the same catalog and hold
// the same value. A mismatched catalog is ordinary inequality, not an error.
func (b *BitField) Equal(other *BitField) bool {
	return other != nil && b.registry == other.registry && b.value == other.value
}

// Hash returns a hash derived purely from the raw value, so bit fields with
// equal values hash identically and Hash is stable as a map-key derivation.
func (b *BitField) Hash() uint64 {
	return hashValue(b.value)
}

func hashValue(v uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

func (b *BitField) compare(other *BitField, op string) error {
	if other == nil || other.registry != b.registry {
		return fmt.Errorf("%w: %s between %s and %s", ErrUnsupportedComparison, op, b.registry.typeName, otherTypeName(other))
	}
	return nil
}

// SubsetOf reports whether every bit set in the receiver is also set in
// other. Comparing across catalogs fails with [ErrUnsupportedComparison].
func (b *BitField) SubsetOf(other *BitField) (bool, error) {
	if err := b.compare(other, "SubsetOf"); err != nil {
		return false, err
	}
	return b.value&other.value == b.value, nil
}

// ProperSubsetOf reports whether the receiver is a subset of other and the
// values differ.
func (b *BitField) ProperSubsetOf(other *BitField) (bool, error) {
	if err := b.compare(other, "ProperSubsetOf"); err != nil {
		return false, err
	}
	return b.value&other.value == b.value && b.value != other.value, nil
}

// SupersetOf reports whether every bit set in other is also set in the
// receiver.
func (b *BitField) SupersetOf(other *BitField) (bool, error) {
	if err := b.compare(other, "SupersetOf"); err != nil {
		return false, err
	}
	return b.value&other.value == other.value, nil
}

// ProperSupersetOf reports whether the receiver is a superset of other and
// the values differ.
func (b *BitField) ProperSupersetOf(other *BitField) (bool, error) {
	if err := b.compare(other, "ProperSupersetOf"); err != nil {
		return false, err
	}
	return b.value&other.value == other.value && b.value != other.value, nil
}

// All returns an iterator over (name, enabled) pairs, one per declared flag,
// in declaration order. States are read live at yield time, not snapshotted.
// Aliases are not yielded. The sequence is restartable.
func (b *BitField) All() iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		for _, f := range b.registry.flags {
			if !yield(f.name, b.value&f.mask == f.mask) {
				return
			}
		}
	}
}

// String renders the catalog type name and the raw value.
func (b *BitField) String() string {
	return fmt.Sprintf("<%s value=%d>", b.registry.typeName, b.value)
}
