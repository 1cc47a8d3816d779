package restir

import "github.com/glint-render/glint/types"

// TargetDensity reduces an unshadowed RGB light contribution to the scalar
// importance weight driving resampling decisions. It uses the Rec.709 luma
// weights; the value is not a true probability density, it only needs to be
// non-negative and proportional to how much the sample would contribute if
// unoccluded.
func TargetDensity(contribution types.Vec3) float32 {
	d := 0.2126*contribution[0] + 0.7152*contribution[1] + 0.0722*contribution[2]
	if d < 0 || d != d {
		return 0
	}
	return d
}
