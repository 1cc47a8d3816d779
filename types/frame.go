package types

import "math"

// ReferenceFrame is a right-handed orthonormal shading basis where the Z
// axis coincides with the surface normal. Directions are moved between
// world space and the local shading space with ToLocal/FromLocal.
type ReferenceFrame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewReferenceFrame builds an orthonormal basis around a unit normal using
// the sign-branching construction of Duff et al., which stays numerically
// stable for normals near -Z.
func NewReferenceFrame(normal Vec3) ReferenceFrame {
	sign := float32(math.Copysign(1, float64(normal[2])))
	a := -1.0 / (sign + normal[2])
	b := normal[0] * normal[1] * a

	return ReferenceFrame{
		Tangent:   Vec3{1 + sign*normal[0]*normal[0]*a, sign * b, -sign * normal[0]},
		Bitangent: Vec3{b, sign + normal[1]*normal[1]*a, -normal[1]},
		Normal:    normal,
	}
}

// ToLocal transforms a world-space direction into the shading space.
func (f ReferenceFrame) ToLocal(v Vec3) Vec3 {
	return Vec3{f.Tangent.Dot(v), f.Bitangent.Dot(v), f.Normal.Dot(v)}
}

// FromLocal transforms a shading-space direction back into world space.
func (f ReferenceFrame) FromLocal(v Vec3) Vec3 {
	return f.Tangent.Mul(v[0]).Add(f.Bitangent.Mul(v[1])).Add(f.Normal.Mul(v[2]))
}
