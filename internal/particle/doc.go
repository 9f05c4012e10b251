// Package particle holds the mutable per-history objects touched by the
// physics packages: the transported [State] and the [Bank] of secondaries.
//
// Nothing here is shared between histories. A State is mutated in place by
// scattering; secondaries are new States pushed onto the history's Bank.
package particle
