// Package scene holds the renderable object model: instanced triangle
// geometry, materials, the camera, the emissive-power importance hierarchy
// used for light sampling, and the BVH consumed through the Trace/Occluded
// collaborator calls.
package scene

import (
	"errors"

	"github.com/glint-render/glint/bsdf"
	"github.com/glint-render/glint/types"
)

var (
	ErrNoCamera        = errors.New("scene: no camera defined")
	ErrNoGeometry      = errors.New("scene: no geometry defined")
	ErrBadMaterialRef  = errors.New("scene: geometry references unknown material")
	ErrAlreadyFinished = errors.New("scene: Finish called twice")
)

// Material describes a surface's reflectance and self-emission. Emittance
// is the radiant exitance of the surface; emissive surfaces are treated as
// diffuse emitters (outgoing radiance = Emittance / pi).
type Material struct {
	Name      string
	BaseColor types.Vec3
	Specular  types.Vec3
	Shininess float32
	Emittance types.Vec3
}

// IsEmissive reports whether the material emits light.
func (m Material) IsEmissive() bool {
	return m.Emittance.MaxComponent() > 0
}

// BSDF instantiates the reflectance model for this material.
func (m Material) BSDF() bsdf.BSDF {
	if m.Specular.MaxComponent() > 0 {
		return bsdf.DiffuseSpecular{Diffuse: m.BaseColor, Specular: m.Specular, Shininess: m.Shininess}
	}
	return bsdf.Lambert{Albedo: m.BaseColor}
}

// Vertex is a triangle-mesh vertex.
type Vertex struct {
	Position types.Vec3
	Normal   types.Vec3
	UV       types.Vec2
}

// GeometryInstance is an indexed triangle mesh bound to one material.
type GeometryInstance struct {
	Vertices  []Vertex
	Triangles [][3]uint32
	Material  uint32

	// World-space vertices, baked by Finish from the owning instance's
	// transform. All sampling and tracing reads these.
	world []Vertex

	// Per-triangle emissive importance table (area-weighted power).
	primDist   Distribution1D
	importance float32
}

// WorldTriangle returns the world-space vertices of triangle prim.
func (g *GeometryInstance) WorldTriangle(prim uint32) (Vertex, Vertex, Vertex) {
	idx := g.Triangles[prim]
	return g.world[idx[0]], g.world[idx[1]], g.world[idx[2]]
}

// Instance places one or more geometry instances in the world.
type Instance struct {
	Transform types.Mat4
	GeomInsts []*GeometryInstance

	geomDist   Distribution1D
	importance float32
}

// Scene owns the instances, materials and camera, plus the derived light
// importance tables and BVH. Construct with NewScene, populate, then call
// Finish exactly once before rendering.
type Scene struct {
	Instances []*Instance
	Materials []Material
	Camera    *Camera

	instDist Distribution1D
	bvh      *bvh
	finished bool
}

func NewScene() *Scene {
	return &Scene{}
}

// AddMaterial registers a material and returns its id.
func (s *Scene) AddMaterial(m Material) uint32 {
	s.Materials = append(s.Materials, m)
	return uint32(len(s.Materials) - 1)
}

// AddInstance places geometry in the world.
func (s *Scene) AddInstance(transform types.Mat4, geomInsts ...*GeometryInstance) *Instance {
	inst := &Instance{Transform: transform, GeomInsts: geomInsts}
	s.Instances = append(s.Instances, inst)
	return inst
}

// MaterialAt resolves a material id to its BSDF evaluator and emitted
// exitance. This is the material-provider contract consumed by the
// resampling stages.
func (s *Scene) MaterialAt(matID uint32) (bsdf.BSDF, types.Vec3) {
	m := s.Materials[matID]
	return m.BSDF(), m.Emittance
}

// Finish bakes instance transforms into world-space vertices, builds the
// three-level emissive importance tables and the BVH. The scene is
// immutable afterwards (camera excepted).
func (s *Scene) Finish() error {
	if s.finished {
		return ErrAlreadyFinished
	}
	if s.Camera == nil {
		return ErrNoCamera
	}
	if len(s.Instances) == 0 {
		return ErrNoGeometry
	}

	instImportance := make([]float32, len(s.Instances))
	var tris []bvhTriangle

	for ii, inst := range s.Instances {
		normalMat := inst.Transform.Inv().Transpose().Mat3()
		geomImportance := make([]float32, len(inst.GeomInsts))

		for gi, geom := range inst.GeomInsts {
			if int(geom.Material) >= len(s.Materials) {
				return ErrBadMaterialRef
			}
			mat := s.Materials[geom.Material]

			geom.world = make([]Vertex, len(geom.Vertices))
			for vi, v := range geom.Vertices {
				geom.world[vi] = Vertex{
					Position: inst.Transform.TransformPoint(v.Position),
					Normal:   normalMat.Mul3x1(v.Normal).Normalize(),
					UV:       v.UV,
				}
			}

			power := mat.Emittance.MaxComponent()
			primImportance := make([]float32, len(geom.Triangles))
			for pi := range geom.Triangles {
				v0, v1, v2 := geom.WorldTriangle(uint32(pi))
				area := triangleArea(v0.Position, v1.Position, v2.Position)
				if mat.IsEmissive() {
					primImportance[pi] = power * area
				}
				tris = append(tris, bvhTriangle{
					instance: uint32(ii),
					geomInst: uint32(gi),
					prim:     uint32(pi),
					v0:       v0.Position,
					v1:       v1.Position,
					v2:       v2.Position,
				})
			}
			geom.primDist = NewDistribution1D(primImportance)
			geom.importance = geom.primDist.Integral()
			geomImportance[gi] = geom.importance
		}

		inst.geomDist = NewDistribution1D(geomImportance)
		inst.importance = inst.geomDist.Integral()
		instImportance[ii] = inst.importance
	}

	s.instDist = NewDistribution1D(instImportance)
	s.bvh = newBVH(tris)
	s.finished = true
	return nil
}

// HasEmitters reports whether any emissive triangle exists.
func (s *Scene) HasEmitters() bool {
	return s.instDist.Integral() > 0
}

func triangleArea(v0, v1, v2 types.Vec3) float32 {
	return v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5
}
