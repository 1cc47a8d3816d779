package cpu

import (
	"math"
	"testing"

	"github.com/glint-render/glint/restir"
	"github.com/glint-render/glint/scene"
	"github.com/glint-render/glint/tracer"
	"github.com/glint-render/glint/types"
)

const (
	floorAlbedo   = 0.8
	lampEmittance = 50
	lampArea      = 0.04
)

// openScene builds a 10x10 diffuse floor at y=0 with a small 0.2x0.2 lamp
// at y=2 facing down, camera on the +z side looking at the floor center.
// Instance 0 is the floor, instance 1 the lamp.
func openScene(t *testing.T, withOccluder bool) *scene.Scene {
	t.Helper()

	s := scene.NewScene()
	white := s.AddMaterial(scene.Material{Name: "white", BaseColor: types.XYZ(floorAlbedo, floorAlbedo, floorAlbedo)})
	lamp := s.AddMaterial(scene.Material{Name: "lamp", Emittance: types.XYZ(lampEmittance, lampEmittance, lampEmittance)})

	floor := scene.NewQuad(
		types.XYZ(-5, 0, 5), types.XYZ(5, 0, 5), types.XYZ(5, 0, -5), types.XYZ(-5, 0, -5),
		white,
	)
	s.AddInstance(types.Ident4(), floor)

	light := scene.NewQuad(
		types.XYZ(-0.1, 2, -0.1), types.XYZ(0.1, 2, -0.1), types.XYZ(0.1, 2, 0.1), types.XYZ(-0.1, 2, 0.1),
		lamp,
	)
	s.AddInstance(types.Ident4(), light)

	if withOccluder {
		blocker := scene.NewQuad(
			types.XYZ(-3, 1, 3), types.XYZ(3, 1, 3), types.XYZ(3, 1, -3), types.XYZ(-3, 1, -3),
			white,
		)
		s.AddInstance(types.Ident4(), blocker)
	}

	s.Camera = scene.NewCamera(30)
	s.Camera.Position = types.XYZ(0, 0.5, 2.5)
	s.Camera.LookAt = types.XYZ(0, 0, 0)

	if err := s.Finish(); err != nil {
		t.Fatalf("scene finish failed: %v", err)
	}
	return s
}

func setupTracer(t *testing.T, s *scene.Scene, frameW, frameH uint32, params restir.Params) (*Tracer, []float32, []uint8) {
	t.Helper()

	s.Camera.SetupProjection(float32(frameW) / float32(frameH))

	tr := New(s, params, DefaultPipeline())
	n := int(frameW) * int(frameH)
	accum := make([]float32, n*4)
	frame := make([]uint8, n*4)
	if err := tr.Setup(frameW, frameH, accum, frame); err != nil {
		t.Fatalf("tracer setup failed: %v", err)
	}
	return tr, accum, frame
}

func TestCandidateVisibilityGating(t *testing.T) {
	s := openScene(t, true)
	tr, _, _ := setupTracer(t, s, 16, 16, restir.DefaultParams())

	req := tracer.FrameRequest{FrameCount: 0, Exposure: 1}
	tr.prevViewProj = s.Camera.ViewProj()
	if _, err := rasterizeGBuffer(tr, &req); err != nil {
		t.Fatal(err)
	}
	if _, err := generateCandidates(tr, &req); err != nil {
		t.Fatal(err)
	}

	numCandidates := tr.params.NumCandidates()
	surfacePixels := 0
	for i := range tr.bufs.gbuffer {
		if tr.bufs.gbuffer[i].miss() {
			continue
		}
		surfacePixels++
		res := &tr.bufs.scratch[i]
		if got := res.NumSamples(); got != numCandidates {
			t.Fatalf("pixel %d: NumSamples = %d, want %d", i, got, numCandidates)
		}
		if res.RecPDFValue() != 0 {
			t.Fatalf("pixel %d: occluded survivor kept recPDF %f, want 0", i, res.RecPDFValue())
		}
	}
	if surfacePixels == 0 {
		t.Fatal("camera sees no geometry, test is vacuous")
	}
}

func TestMissPixelsStayInert(t *testing.T) {
	s := openScene(t, false)
	s.Camera.Position = types.XYZ(0, 1, 6)
	s.Camera.LookAt = types.XYZ(0, 1, 7)

	tr, accum, frame := setupTracer(t, s, 8, 8, restir.DefaultParams())

	for fc := uint32(0); fc < 3; fc++ {
		if err := tr.RenderFrame(tracer.FrameRequest{FrameCount: fc, Exposure: 1}); err != nil {
			t.Fatal(err)
		}
	}

	for i := range tr.bufs.gbuffer {
		if !tr.bufs.gbuffer[i].miss() {
			t.Fatalf("pixel %d: expected miss sentinel", i)
		}
		if tr.bufs.history[i].NumSamples() != 0 {
			t.Fatalf("pixel %d: miss pixel accumulated reservoir history", i)
		}
		for c := 0; c < 3; c++ {
			if accum[i*4+c] != 0 {
				t.Fatalf("pixel %d channel %d: accumulated %f, want 0", i, c, accum[i*4+c])
			}
			if frame[i*4+c] != 0 {
				t.Fatalf("pixel %d channel %d: display %d, want 0", i, c, frame[i*4+c])
			}
		}
		if frame[i*4+3] != 255 {
			t.Fatalf("pixel %d: alpha %d, want 255", i, frame[i*4+3])
		}
	}
}

func TestTemporalReuseCounts(t *testing.T) {
	s := openScene(t, false)
	params := restir.DefaultParams()
	tr, _, _ := setupTracer(t, s, 16, 16, params)
	tr.prevViewProj = s.Camera.ViewProj()

	numCandidates := params.NumCandidates()

	// Frame zero: temporal must leave the fresh candidates untouched.
	req0 := tracer.FrameRequest{FrameCount: 0, Exposure: 1}
	if _, err := rasterizeGBuffer(tr, &req0); err != nil {
		t.Fatal(err)
	}
	if _, err := generateCandidates(tr, &req0); err != nil {
		t.Fatal(err)
	}
	if _, err := temporalReuse(tr, &req0); err != nil {
		t.Fatal(err)
	}
	for i := range tr.bufs.scratch {
		if tr.bufs.gbuffer[i].miss() {
			continue
		}
		if got := tr.bufs.scratch[i].NumSamples(); got != numCandidates {
			t.Fatalf("frame 0 pixel %d: temporal changed NumSamples to %d, want %d", i, got, numCandidates)
		}
	}
	if _, err := spatialReuse(tr, &req0); err != nil {
		t.Fatal(err)
	}

	// Snapshot the history going into frame one.
	prevCounts := make([]uint32, len(tr.bufs.history))
	prevUsable := make([]bool, len(tr.bufs.history))
	for i := range tr.bufs.history {
		prevCounts[i] = tr.bufs.history[i].NumSamples()
		prevUsable[i] = tr.bufs.history[i].NumSamples() > 0 && tr.bufs.history[i].RecPDFValue() > 0
	}

	// Frame one: static camera means zero motion, so each pixel merges
	// with its own history, capped by the history factor.
	req1 := tracer.FrameRequest{FrameCount: 1, Exposure: 1}
	if _, err := rasterizeGBuffer(tr, &req1); err != nil {
		t.Fatal(err)
	}
	if _, err := generateCandidates(tr, &req1); err != nil {
		t.Fatal(err)
	}
	if _, err := temporalReuse(tr, &req1); err != nil {
		t.Fatal(err)
	}

	checked := 0
	for i := range tr.bufs.scratch {
		if tr.bufs.gbuffer[i].miss() {
			continue
		}
		want := numCandidates
		if prevUsable[i] {
			capped := prevCounts[i]
			if limit := params.TemporalHistoryFactor * numCandidates; capped > limit {
				capped = limit
			}
			want = numCandidates + capped
		}
		if got := tr.bufs.scratch[i].NumSamples(); got != want {
			t.Fatalf("frame 1 pixel %d: NumSamples = %d, want %d (history %d)", i, got, want, prevCounts[i])
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("camera sees no geometry, test is vacuous")
	}
}

func TestSpatialGeometricGating(t *testing.T) {
	s := openScene(t, false)
	params := restir.DefaultParams()
	params.SpatialTrials = 256
	params.SpatialRadius = 1.5

	tr, _, _ := setupTracer(t, s, 2, 1, params)

	lampSample := restir.LightSample{
		InstanceIndex:         1,
		GeometryInstanceIndex: 0,
		PrimitiveIndex:        0,
		B1:                    0.25,
		B2:                    0.25,
	}

	seed := func(depth0, depth1 float32, normal1 types.Vec3) {
		tr.bufs.gbuffer[0] = surfacePixel{
			Position: types.XYZ(-0.05, 0, 0),
			Normal:   types.XYZ(0, 1, 0),
			Material: 0,
			Depth:    depth0,
		}
		tr.bufs.gbuffer[1] = surfacePixel{
			Position: types.XYZ(0.05, 0, 0),
			Normal:   normal1,
			Material: 0,
			Depth:    depth1,
		}
		for i := 0; i < 2; i++ {
			res := &tr.bufs.scratch[i]
			res.Initialize()
			res.Update(lampSample, 1, 0)
			res.SetRecPDFValue(1)
		}
	}

	req := tracer.FrameRequest{FrameCount: 1, Exposure: 1}

	// Depth mismatch beyond the 10% gate: no merge may happen.
	seed(1.0, 1.5, types.XYZ(0, 1, 0))
	if _, err := spatialReuse(tr, &req); err != nil {
		t.Fatal(err)
	}
	if got := tr.bufs.history[0].NumSamples(); got != 1 {
		t.Fatalf("depth gate: pixel 0 merged anyway, NumSamples = %d, want 1", got)
	}

	// Normal mismatch below the 0.9 dot gate.
	tilted := types.XYZ(1, 1, 0).Normalize()
	seed(1.0, 1.0, tilted)
	if _, err := spatialReuse(tr, &req); err != nil {
		t.Fatal(err)
	}
	if got := tr.bufs.history[0].NumSamples(); got != 1 {
		t.Fatalf("normal gate: pixel 0 merged anyway, NumSamples = %d, want 1", got)
	}

	// Compatible neighbor: with 256 disk trials at radius 1.5 the
	// neighbor is sampled with overwhelming probability, and each
	// accepted merge adds its count.
	seed(1.0, 1.0, types.XYZ(0, 1, 0))
	if _, err := spatialReuse(tr, &req); err != nil {
		t.Fatal(err)
	}
	if got := tr.bufs.history[0].NumSamples(); got <= 1 {
		t.Fatalf("compatible neighbor never merged, NumSamples = %d", got)
	}
}

func TestRenderedRadianceMatchesAnalytic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping accumulation test in short mode")
	}

	s := openScene(t, false)
	const frameW, frameH = 32, 32
	tr, accum, _ := setupTracer(t, s, frameW, frameH, restir.DefaultParams())

	const frames = 100
	for fc := uint32(0); fc < frames; fc++ {
		if err := tr.RenderFrame(tracer.FrameRequest{FrameCount: fc, Exposure: 1}); err != nil {
			t.Fatal(err)
		}
	}

	idx := tr.bufs.index(frameW/2, frameH/2)
	sp := &tr.bufs.gbuffer[idx]
	if sp.miss() {
		t.Fatal("center pixel sees no geometry")
	}

	// For a small lamp the geometry term is nearly constant across its
	// surface, so contribution ~= f * Le * G(center) * area.
	lightCenter := types.XYZ(0, 2, 0)
	seg := lightCenter.Sub(sp.Position)
	distSq := seg.LenSq()
	dist := float32(math.Sqrt(float64(distSq)))
	cosSurf := seg.Mul(1 / dist).Dot(sp.Normal)
	cosLight := seg.Mul(1 / dist).Dot(types.XYZ(0, 1, 0))
	g := cosSurf * cosLight / distSq

	want := (floorAlbedo / math.Pi) * (lampEmittance / math.Pi) * float64(g) * lampArea

	got := float64(accum[idx*4] / accum[idx*4+3])
	if relErr := math.Abs(got-want) / want; relErr > 0.15 {
		t.Fatalf("center pixel radiance = %f, want %f (+-15%%)", got, want)
	}
}
