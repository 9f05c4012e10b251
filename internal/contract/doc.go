// Package contract provides the error taxonomy shared by the physics packages.
//
// Two failure channels exist:
//
//   - Construction: constructors validate their tables and return an error
//     wrapping [ErrPrecondition]. A malformed table is a data pipeline bug and
//     is never retried.
//   - Transport: sampling and scattering do not return errors. A broken
//     contract on that path (a primary value outside a non-extended grid, a
//     density requested from a discrete distribution) panics with a
//     [*Violation] via [Require], [Ensure] or [Unsupported].
//
// Zero-rate conditions (energy below threshold, secondary below cutoff) are
// not errors and never reach this package.
package contract
