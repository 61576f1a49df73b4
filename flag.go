package goFlags

// Flag binds a symbolic name to a bit position inside a catalog value.
// Flags are immutable after creation and carry no state of their own; the
// boolean state lives in the [BitField] that consults them.
type Flag struct {
	name      string
	mask      uint64
	defaultOn bool
	alias     bool
}

// NewFlag creates a flag descriptor. The mask function is evaluated exactly
// once, here, and must yield a single set bit; [NewRegistry] rejects masks
// that are zero or wider than one bit.
func NewFlag(name string, mask func() uint64) Flag {
	return Flag{name: name, mask: mask()}
}

// NewAlias creates a named view over several already-declared bits (the OR of
// their masks). Aliases resolve through [BitField.Get], [BitField.Set], and
// keyword construction, but are not part of [Registry.ValidFlags], do not
// appear in iteration, and cannot widen the catalog's bit universe.
func NewAlias(name string, mask func() uint64) Flag {
	return Flag{name: name, mask: mask(), alias: true}
}

// WithDefault returns a copy of the flag marked on-by-default. Default flags
// contribute their bit to [Registry.DefaultValue].
func (f Flag) WithDefault() Flag {
	f.defaultOn = true
	return f
}

// Name returns the flag's symbolic name.
func (f Flag) Name() string { return f.name }

// Mask returns the flag's bit mask.
func (f Flag) Mask() uint64 { return f.mask }

// IsDefault reports whether the flag is on-by-default.
func (f Flag) IsDefault() bool { return f.defaultOn }

// IsAlias reports whether the flag is an alias over other flags' bits.
func (f Flag) IsAlias() bool { return f.alias }
