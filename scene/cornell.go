package scene

import (
	"math"

	"github.com/glint-render/glint/types"
)

// NewQuad builds a two-triangle quad from four corners in counter-clockwise
// order, with the face normal shared by all vertices.
func NewQuad(v0, v1, v2, v3 types.Vec3, material uint32) *GeometryInstance {
	normal := v1.Sub(v0).Cross(v3.Sub(v0)).Normalize()
	return &GeometryInstance{
		Vertices: []Vertex{
			{Position: v0, Normal: normal, UV: types.XY(0, 0)},
			{Position: v1, Normal: normal, UV: types.XY(1, 0)},
			{Position: v2, Normal: normal, UV: types.XY(1, 1)},
			{Position: v3, Normal: normal, UV: types.XY(0, 1)},
		},
		Triangles: [][3]uint32{{0, 1, 2}, {0, 2, 3}},
		Material:  material,
	}
}

// NewBox builds a unit cube centered at the origin with outward faces.
// Place it in the world through the instance transform.
func NewBox(material uint32) []*GeometryInstance {
	const h = 0.5
	return []*GeometryInstance{
		NewQuad(types.XYZ(-h, -h, h), types.XYZ(h, -h, h), types.XYZ(h, h, h), types.XYZ(-h, h, h), material),     // front
		NewQuad(types.XYZ(h, -h, -h), types.XYZ(-h, -h, -h), types.XYZ(-h, h, -h), types.XYZ(h, h, -h), material), // back
		NewQuad(types.XYZ(-h, -h, -h), types.XYZ(-h, -h, h), types.XYZ(-h, h, h), types.XYZ(-h, h, -h), material), // left
		NewQuad(types.XYZ(h, -h, h), types.XYZ(h, -h, -h), types.XYZ(h, h, -h), types.XYZ(h, h, h), material),     // right
		NewQuad(types.XYZ(-h, h, h), types.XYZ(h, h, h), types.XYZ(h, h, -h), types.XYZ(-h, h, -h), material),     // top
		NewQuad(types.XYZ(-h, -h, -h), types.XYZ(h, -h, -h), types.XYZ(h, -h, h), types.XYZ(-h, -h, h), material), // bottom
	}
}

// NewCornellBox builds the default demo scene: a Cornell-style box with two
// blocks and a single area light in the ceiling. Finish has already been
// called on the returned scene.
func NewCornellBox() (*Scene, error) {
	s := NewScene()

	white := s.AddMaterial(Material{Name: "white", BaseColor: types.XYZ(0.73, 0.73, 0.73)})
	red := s.AddMaterial(Material{Name: "red", BaseColor: types.XYZ(0.65, 0.05, 0.05)})
	green := s.AddMaterial(Material{Name: "green", BaseColor: types.XYZ(0.12, 0.45, 0.15)})
	glossy := s.AddMaterial(Material{
		Name:      "glossy",
		BaseColor: types.XYZ(0.3, 0.3, 0.35),
		Specular:  types.XYZ(0.4, 0.4, 0.4),
		Shininess: 48,
	})
	lamp := s.AddMaterial(Material{
		Name:      "lamp",
		BaseColor: types.XYZ(0, 0, 0),
		Emittance: types.XYZ(34, 30, 24),
	})

	// Room interior, 2 units on each side.
	s.AddInstance(types.Ident4(),
		NewQuad(types.XYZ(-1, 0, 1), types.XYZ(1, 0, 1), types.XYZ(1, 0, -1), types.XYZ(-1, 0, -1), white),   // floor
		NewQuad(types.XYZ(-1, 2, -1), types.XYZ(1, 2, -1), types.XYZ(1, 2, 1), types.XYZ(-1, 2, 1), white),   // ceiling
		NewQuad(types.XYZ(1, 0, -1), types.XYZ(1, 2, -1), types.XYZ(-1, 2, -1), types.XYZ(-1, 0, -1), white), // back wall
		NewQuad(types.XYZ(-1, 0, -1), types.XYZ(-1, 2, -1), types.XYZ(-1, 2, 1), types.XYZ(-1, 0, 1), red),   // left wall
		NewQuad(types.XYZ(1, 0, 1), types.XYZ(1, 2, 1), types.XYZ(1, 2, -1), types.XYZ(1, 0, -1), green),     // right wall
	)

	// Ceiling lamp, slightly below the ceiling, facing down.
	s.AddInstance(types.Ident4(),
		NewQuad(types.XYZ(-0.3, 1.99, -0.3), types.XYZ(0.3, 1.99, -0.3), types.XYZ(0.3, 1.99, 0.3), types.XYZ(-0.3, 1.99, 0.3), lamp),
	)

	// Tall and short blocks.
	tall := types.Translate4(types.XYZ(-0.38, 0.6, -0.32)).
		Mul4(types.Rotate4(float32(17*math.Pi/180), types.XYZ(0, 1, 0))).
		Mul4(types.Scale4(types.XYZ(0.55, 1.2, 0.55)))
	s.AddInstance(tall, NewBox(white)...)

	short := types.Translate4(types.XYZ(0.4, 0.3, 0.35)).
		Mul4(types.Rotate4(float32(-18*math.Pi/180), types.XYZ(0, 1, 0))).
		Mul4(types.Scale4(types.XYZ(0.55, 0.6, 0.55)))
	s.AddInstance(short, NewBox(glossy)...)

	s.Camera = NewCamera(50)
	s.Camera.Position = types.XYZ(0, 1, 3.1)
	s.Camera.LookAt = types.XYZ(0, 1, 0)

	if err := s.Finish(); err != nil {
		return nil, err
	}
	return s, nil
}
