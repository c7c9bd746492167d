package geometry

import "fmt"

// Box is an axis-aligned bounding box given by its min and max corners.
type Box struct {
	Min Vector3 `json:"min" yaml:"min"`
	Max Vector3 `json:"max" yaml:"max"`
}

// NewCube creates the cube centered at center with the given half extent.
func NewCube(center Vector3, halfExtent float64) Box {
	h := Vector3{halfExtent, halfExtent, halfExtent}
	return Box{Min: center.Sub(h), Max: center.Add(h)}
}

func (b Box) String() string {
	return fmt.Sprintf("[%s - %s]", b.Min, b.Max)
}

// Size returns the edge lengths of the box.
func (b Box) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the volume, zero or negative for degenerate boxes.
func (b Box) Volume() float64 {
	s := b.Size()
	if s.X <= 0 || s.Y <= 0 || s.Z <= 0 {
		return 0
	}
	return s.X * s.Y * s.Z
}

// Center returns the middle point of the box.
func (b Box) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside the box, faces included.
func (b Box) Contains(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Octant returns the index (0..7) of the octant holding p.
// On every axis a coordinate equal to the center goes to the upper half,
// so a point on a splitting plane belongs to exactly one octant.
// Bit 0 is X, bit 1 is Y and bit 2 is Z.
func (b Box) Octant(p Vector3) int {
	c := b.Center()
	idx := 0
	if p.X >= c.X {
		idx |= 1
	}
	if p.Y >= c.Y {
		idx |= 2
	}
	if p.Z >= c.Z {
		idx |= 4
	}
	return idx
}

// Child returns the bounds of the i-th octant, using the same bit layout as Octant.
func (b Box) Child(i int) Box {
	c := b.Center()
	child := Box{Min: b.Min, Max: c}
	if i&1 != 0 {
		child.Min.X, child.Max.X = c.X, b.Max.X
	}
	if i&2 != 0 {
		child.Min.Y, child.Max.Y = c.Y, b.Max.Y
	}
	if i&4 != 0 {
		child.Min.Z, child.Max.Z = c.Z, b.Max.Z
	}
	return child
}

// ClosestPoint returns the point of the box nearest to p.
func (b Box) ClosestPoint(p Vector3) Vector3 {
	return Vector3{
		X: clamp(p.X, b.Min.X, b.Max.X),
		Y: clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// IntersectsSphere reports whether the sphere touches the box.
// Squared distances only.
func (b Box) IntersectsSphere(s Sphere) bool {
	return b.ClosestPoint(s.Center).DistanceSquaredTo(s.Center) <= s.Radius*s.Radius
}

// ContainsBox reports whether other lies entirely inside b.
func (b Box) ContainsBox(other Box) bool {
	return b.Contains(other.Min) && b.Contains(other.Max)
}

// Sphere is a query volume: every point within Radius of Center.
type Sphere struct {
	Center Vector3
	Radius float64
}

// ContainsBox reports whether the whole box lies inside the sphere.
func (s Sphere) ContainsBox(b Box) bool {
	r2 := s.Radius * s.Radius
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		if corner.DistanceSquaredTo(s.Center) > r2 {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}
