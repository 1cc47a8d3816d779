package restir

import "fmt"

// LightSample is the compact, trivially copyable payload carried by a
// reservoir. It pins down one point on an emissive triangle: the triangle
// identity as an (instance, geometry instance, primitive) index triple plus
// the barycentric coordinates of the point. Position, normal and radiance
// are re-derived on demand by the scene's light sampler, so reservoirs stay
// small and reusable across frames.
type LightSample struct {
	InstanceIndex         uint32
	GeometryInstanceIndex uint32
	PrimitiveIndex        uint32

	// Barycentric coordinates of the sampled point. The weight of the
	// first vertex is the implied 1 - B1 - B2.
	B1 float32
	B2 float32
}

// Validate reports the precondition violations of a malformed sample.
// Out-of-range barycentrics indicate an upstream algorithmic bug.
func (s LightSample) Validate() error {
	if s.B1 < 0 || s.B1 > 1 || s.B1 != s.B1 {
		return fmt.Errorf("restir: light sample barycentric b1 out of range: %f", s.B1)
	}
	if s.B2 < 0 || s.B2 > 1 || s.B2 != s.B2 {
		return fmt.Errorf("restir: light sample barycentric b2 out of range: %f", s.B2)
	}
	if s.B1+s.B2 > 1+1e-6 {
		return fmt.Errorf("restir: light sample barycentrics sum to %f > 1", s.B1+s.B2)
	}
	return nil
}
