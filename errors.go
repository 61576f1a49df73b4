package goFlags

import "errors"

var (
	// ErrInvalidFlagName reports a flag name that is not declared in the
	// owning registry. The wrapped message identifies the offending name.
	ErrInvalidFlagName = errors.New("not a valid flag name")
	// ErrInvalidFlagValueType reports a named-flag assignment whose value is
	// not a bool. The wrapped message identifies the catalog type name.
	ErrInvalidFlagValueType = errors.New("flag value must be a bool")
	// ErrUnsupportedComparison reports a subset/superset comparison between
	// bit fields of different catalogs. The wrapped message names both
	// operand types and the operation.
	ErrUnsupportedComparison = errors.New("comparison not supported")
	// ErrMismatchedFlagSets reports a bitwise combination between bit fields
	// of different catalogs.
	ErrMismatchedFlagSets = errors.New("bit fields belong to different flag catalogs")
	// ErrDuplicateFlag reports two descriptors in one catalog sharing a name
	// or a bit position.
	ErrDuplicateFlag = errors.New("duplicate flag")
	// ErrInvalidMask reports a descriptor mask that is zero, wider than a
	// single bit, or an alias referencing undeclared bits.
	ErrInvalidMask = errors.New("invalid flag mask")
)
