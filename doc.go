// Package goFlags provides a declarative named-bitfield framework: a catalog of
// boolean flags packed into a single uint64 value, where every flag owns exactly
// one bit, carries a symbolic name and a default state, and the whole value
// supports boolean algebra, subset ordering, equality, hashing, and iteration.
//
// A catalog is declared once as a [Registry] built from [Flag] descriptors.
// The registry is the immutable name→mask table shared by every [BitField]
// instance of that catalog; all name validation and mask lookup goes through it.
// Building happens exactly once, at declaration time — typically in a
// package-level variable via [MustRegistry].
//
// # Architecture boundaries
//
// goFlags is a pure in-memory data structure with no I/O. The only artifact
// that ever leaves the package is the raw uint64 value; named-flag semantics
// are a client-side interpretation layer. Persistence of raw values lives in
// the store subpackage.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Mutate a [Registry] after construction.
//   - Expose undefined bit positions through named accessors, iteration,
//     or inversion. Unknown bits round-trip through [Registry.FromValue]
//     untouched but never surface through a name.
package goFlags
