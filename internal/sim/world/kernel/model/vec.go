package model

import "colonycraft.ai/internal/sim/world/logic/mathx"

type Vec3i struct{ X, Y, Z int }

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// DistSq is the squared euclidean distance between block positions.
func (v Vec3i) DistSq(o Vec3i) int {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Within reports whether o lies inside the cube of half-extent r around v.
func (v Vec3i) Within(o Vec3i, r int) bool {
	return mathx.AbsInt(v.X-o.X) <= r && mathx.AbsInt(v.Y-o.Y) <= r && mathx.AbsInt(v.Z-o.Z) <= r
}

// Box is an inclusive axis-aligned block box.
type Box struct {
	Min Vec3i
	Max Vec3i
}

// BoxAround expands the single block at c by h horizontally and v vertically.
func BoxAround(c Vec3i, h, v int) Box {
	return Box{
		Min: Vec3i{X: c.X - h, Y: c.Y - v, Z: c.Z - h},
		Max: Vec3i{X: c.X + h, Y: c.Y + v, Z: c.Z + h},
	}
}

func (b Box) Contains(p Vec3i) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
