package scene

import (
	"fmt"

	"github.com/glint-render/glint/types"
)

// Frustrum stores the ray directions at the four corners of the camera
// frustrum. Per-pixel primary rays are generated by interpolating the
// corner rays.
type Frustrum [4]types.Vec4

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// Directions understood by Camera.Move.
type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// Camera controls the scene viewpoint. The previous frame's view-projection
// matrix is retained across Update calls so the G-buffer pass can emit
// screen-space motion vectors for temporal reservoir reuse.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	ViewMat  types.Mat4
	ProjMat  types.Mat4
	Frustrum Frustrum

	// Camera FOV in degrees.
	FOV float32

	prevViewProj types.Mat4
	hasPrev      bool
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// SetupProjection initializes the projection matrix for the frame aspect
// ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, 0.1, 1000)
	c.Update()
}

// Update recomputes the view matrix and frustrum corner rays from the
// current position/orientation, applying any pending pitch/yaw deltas.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)
	c.Pitch, c.Yaw = 0, 0

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir)

	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
	c.updateFrustrum()
}

// Move shifts the camera along one of its local axes.
func (c *Camera) Move(dir CameraDirection, speed float32) {
	var delta types.Vec3
	forward := c.LookAt.Sub(c.Position).Normalize()

	switch dir {
	case Forward:
		delta = forward.Mul(speed)
	case Backward:
		delta = forward.Mul(-speed)
	case Left:
		delta = forward.Cross(c.Up).Normalize().Mul(-speed)
	case Right:
		delta = forward.Cross(c.Up).Normalize().Mul(speed)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
}

// ViewProj returns the combined view-projection matrix.
func (c *Camera) ViewProj() types.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat)
}

func (c *Camera) InvViewProjMat() types.Mat4 {
	return c.ViewProj().Inv()
}

// BeginFrame returns the view-projection matrix of the previous frame (for
// motion vectors) and rolls the current one into its place. On the very
// first frame there is no history and ok is false; motion vectors degrade
// to zero.
func (c *Camera) BeginFrame() (prev types.Mat4, ok bool) {
	prev, ok = c.prevViewProj, c.hasPrev
	c.prevViewProj = c.ViewProj()
	c.hasPrev = true
	if !ok {
		prev = c.prevViewProj
	}
	return prev, ok
}

// ResetHistory drops the previous-frame matrix (camera cut).
func (c *Camera) ResetHistory() {
	c.hasPrev = false
}

// PrimaryRayDir interpolates the frustrum corner rays for a pixel center,
// with x, y in [0,1) across the frame.
func (c *Camera) PrimaryRayDir(x, y float32) types.Vec3 {
	top := c.Frustrum[0].Mul(1 - x).Add(c.Frustrum[1].Mul(x))
	bottom := c.Frustrum[2].Mul(1 - x).Add(c.Frustrum[3].Mul(x))
	return top.Mul(1 - y).Add(bottom.Mul(y)).Vec3().Normalize()
}

// ProjectToPixel maps a world position through a view-projection matrix to
// continuous pixel coordinates. ok is false when the point lies behind the
// camera.
func ProjectToPixel(viewProj types.Mat4, p types.Vec3, frameW, frameH uint32) (types.Vec2, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return types.Vec2{}, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	return types.XY(
		(ndcX*0.5+0.5)*float32(frameW),
		(0.5-ndcY*0.5)*float32(frameH),
	), true
}

// Generate a ray vector for each corner of the camera frustrum by
// multiplying clip space vectors for each corner with the inv proj/view
// matrix, applying perspective and subtracting the camera eye position.
func (c *Camera) updateFrustrum() {
	var v types.Vec4
	invProjViewMat := c.InvViewProjMat()

	v = invProjViewMat.Mul4x1(types.XYZW(-1, 1, -1, 1))
	c.Frustrum[0] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)

	v = invProjViewMat.Mul4x1(types.XYZW(1, 1, -1, 1))
	c.Frustrum[1] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)

	v = invProjViewMat.Mul4x1(types.XYZW(-1, -1, -1, 1))
	c.Frustrum[2] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)

	v = invProjViewMat.Mul4x1(types.XYZW(1, -1, -1, 1))
	c.Frustrum[3] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)
}
