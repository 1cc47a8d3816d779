package types

import (
	"math"
	"math/rand"
	"testing"
)

func TestReferenceFrameOrthonormal(t *testing.T) {
	normals := []Vec3{
		{0, 0, 1},
		{0, 0, -1},
		{1, 0, 0},
		{0, 1, 0},
		XYZ(1, 2, 3).Normalize(),
		XYZ(-0.2, 0.9, -0.4).Normalize(),
		XYZ(1e-4, -1e-4, -1).Normalize(),
	}

	const tol = 1e-5
	for _, n := range normals {
		f := NewReferenceFrame(n)

		for name, b := range map[string]Vec3{"tangent": f.Tangent, "bitangent": f.Bitangent, "normal": f.Normal} {
			if d := math.Abs(float64(b.Len() - 1)); d > tol {
				t.Errorf("normal %v: %s not unit length (len=%f)", n, name, b.Len())
			}
		}

		if d := f.Tangent.Dot(f.Bitangent); math.Abs(float64(d)) > tol {
			t.Errorf("normal %v: tangent.bitangent = %f, want 0", n, d)
		}
		if d := f.Tangent.Dot(f.Normal); math.Abs(float64(d)) > tol {
			t.Errorf("normal %v: tangent.normal = %f, want 0", n, d)
		}
		if d := f.Bitangent.Dot(f.Normal); math.Abs(float64(d)) > tol {
			t.Errorf("normal %v: bitangent.normal = %f, want 0", n, d)
		}

		// Right-handed: tangent x bitangent == normal.
		cross := f.Tangent.Cross(f.Bitangent)
		if cross.Sub(n).Len() > tol {
			t.Errorf("normal %v: tangent x bitangent = %v, want %v", n, cross, n)
		}
	}
}

func TestReferenceFrameRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		n := XYZ(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1).Normalize()
		if n.Len() == 0 {
			continue
		}
		f := NewReferenceFrame(n)

		v := XYZ(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1)
		back := f.FromLocal(f.ToLocal(v))
		if back.Sub(v).Len() > 1e-5 {
			t.Fatalf("round trip mismatch: %v -> %v", v, back)
		}
	}
}

func TestReferenceFrameNormalMapsToZ(t *testing.T) {
	n := XYZ(0.3, -0.5, 0.8).Normalize()
	f := NewReferenceFrame(n)
	local := f.ToLocal(n)
	if local.Sub(XYZ(0, 0, 1)).Len() > 1e-5 {
		t.Fatalf("normal in local space = %v, want (0,0,1)", local)
	}
}
