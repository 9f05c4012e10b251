package particle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the transported particle.
type State struct {
	Type            Type
	Energy          float64
	Position        r3.Vec
	Direction       r3.Vec
	Weight          float64
	CollisionNumber int
	Generation      int
	HistoryNumber   int64

	probe bool
}

// NewState returns a particle of type t travelling along +z with unit weight.
func NewState(t Type, energy float64, history int64) *State {
	return &State{
		Type:          t,
		Energy:        energy,
		Direction:     r3.Vec{Z: 1},
		Weight:        1,
		HistoryNumber: history,
	}
}

// IsProbe reports whether the state is a probe created for line-energy
// tallies. Probes never create further probes.
func (s *State) IsProbe() bool { return s.probe }

// IncrementCollisionNumber records one more collision.
func (s *State) IncrementCollisionNumber() { s.CollisionNumber++ }

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// NewSecondary creates a particle born from s. Position, history, collision
// number and weight are inherited; the generation advances by one. The
// direction is copied and is expected to be overwritten by the caller.
func (s *State) NewSecondary(t Type, energy float64) *State {
	return &State{
		Type:            t,
		Energy:          energy,
		Position:        s.Position,
		Direction:       s.Direction,
		Weight:          s.Weight,
		CollisionNumber: s.CollisionNumber,
		Generation:      s.Generation + 1,
		HistoryNumber:   s.HistoryNumber,
	}
}

// NewProbe clones s as a probe at the given energy with its weight scaled by
// weightMultiplier.
func (s *State) NewProbe(energy, weightMultiplier float64) *State {
	p := s.Clone()
	p.Energy = energy
	p.Weight *= weightMultiplier
	p.probe = true
	return p
}

// SetDirectionFromAngles points the particle along the lab-frame direction
// with polar cosine mu (about z) and azimuth phi.
func (s *State) SetDirectionFromAngles(mu, phi float64) {
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	s.Direction = r3.Vec{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: mu,
	}
}

// RotateDirection rotates the current direction through polar cosine mu and
// azimuth phi measured about the current direction.
func (s *State) RotateDirection(mu, phi float64) {
	s.Direction = Rotate(s.Direction, mu, phi)
}

// Rotate returns d rotated through polar cosine mu and azimuth phi.
func Rotate(d r3.Vec, mu, phi float64) r3.Vec {
	sinTheta := math.Sqrt(math.Max(0, 1-mu*mu))
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	a := math.Sqrt(math.Max(0, 1-d.Z*d.Z))
	var out r3.Vec
	if a < 1e-10 {
		sign := math.Copysign(1, d.Z)
		out = r3.Vec{
			X: sinTheta * cosPhi,
			Y: sinTheta * sinPhi,
			Z: sign * mu,
		}
	} else {
		out = r3.Vec{
			X: mu*d.X + sinTheta*(d.X*d.Z*cosPhi-d.Y*sinPhi)/a,
			Y: mu*d.Y + sinTheta*(d.Y*d.Z*cosPhi+d.X*sinPhi)/a,
			Z: mu*d.Z - a*sinTheta*cosPhi,
		}
	}
	return r3.Unit(out)
}
