// Package bsdf provides the reflectance models evaluated by the resampling
// stages. All directions are expressed in the local shading frame where the
// Z axis is the surface normal.
package bsdf

import (
	"math"

	"github.com/glint-render/glint/types"
)

// BSDF evaluates a surface reflectance model for an outgoing/incoming
// direction pair.
type BSDF interface {
	// Evaluate returns the reflected radiance factor for light arriving
	// along dirIn and leaving along dirOut, both unit vectors in the local
	// shading frame. Directions below the horizon yield black.
	Evaluate(dirOut, dirIn types.Vec3) types.Vec3

	// BaseColor returns a rough albedo estimate for the material,
	// independent of the direction pair.
	BaseColor() types.Vec3
}

// Lambert is the ideal diffuse reflector.
type Lambert struct {
	Albedo types.Vec3
}

func (l Lambert) Evaluate(dirOut, dirIn types.Vec3) types.Vec3 {
	if dirOut[2] <= 0 || dirIn[2] <= 0 {
		return types.Vec3{}
	}
	return l.Albedo.Mul(1.0 / math.Pi)
}

func (l Lambert) BaseColor() types.Vec3 {
	return l.Albedo
}

// DiffuseSpecular layers a normalized Blinn-Phong glossy lobe over a
// diffuse base. Shininess is the Blinn-Phong exponent; higher is tighter.
type DiffuseSpecular struct {
	Diffuse   types.Vec3
	Specular  types.Vec3
	Shininess float32
}

func (m DiffuseSpecular) Evaluate(dirOut, dirIn types.Vec3) types.Vec3 {
	if dirOut[2] <= 0 || dirIn[2] <= 0 {
		return types.Vec3{}
	}

	value := m.Diffuse.Mul(1.0 / math.Pi)

	half := dirOut.Add(dirIn).Normalize()
	if half[2] > 0 {
		// Normalized Blinn-Phong lobe, (n+2)/2pi.
		lobe := float32(math.Pow(float64(half[2]), float64(m.Shininess))) *
			(m.Shininess + 2) / (2 * math.Pi)
		value = value.Add(m.Specular.Mul(lobe))
	}

	return value
}

func (m DiffuseSpecular) BaseColor() types.Vec3 {
	return m.Diffuse.Add(m.Specular)
}
