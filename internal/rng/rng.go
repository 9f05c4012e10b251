// Package rng supplies the uniform random number sources consumed by the
// sampling code. Every history owns its own stream; nothing here is shared.
package rng

import (
	"math/rand"
)

// Source is a uniform [0, 1) random number stream.
type Source interface {
	Float64() float64
}

// New returns a stream seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ForHistory returns the stream for one history of a run. Streams for
// different histories of the same run do not share seeds.
func ForHistory(base int64, history int64) *rand.Rand {
	return New(mix(base, history))
}

// splitmix64 finalizer over the pair so neighbouring histories land far apart.
func mix(base, history int64) int64 {
	z := uint64(base) + uint64(history)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
