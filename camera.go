package glstage

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MinFrameRadius is the smallest bounding radius FrameBounds works with. A box
// around a single point would otherwise put the camera at distance zero with
// coincident near and far planes.
const MinFrameRadius = 1e-3

// Camera frames a bounding box for the attribute region.
type Camera struct {
	Eye, Center, Up mgl32.Vec3
	// FieldOfView is the half-angle in degrees; the projection spans twice it.
	FieldOfView float32
	Near, Far   float32

	View, Projection mgl32.Mat4
}

// MVP returns Projection * View.
func (c Camera) MVP() mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}

// FrameBounds places a camera at (0, 0, distance) looking at the box center,
// where distance is how far a sphere of the box's radius must be to fill
// fovDegrees. Near and far planes are distance minus and plus the radius, so
// a box far from the origin may be clipped; FrameBoundsCentered keeps it in
// view. An empty box is framed as a point at the origin.
func FrameBounds(box BoundingBox, fovDegrees float32) Camera {
	return frame(box, fovDegrees, false)
}

// FrameBoundsCentered is FrameBounds with the eye moved to
// center + (0, 0, distance), so the sphere sits between the planes wherever
// the box is.
func FrameBoundsCentered(box BoundingBox, fovDegrees float32) Camera {
	return frame(box, fovDegrees, true)
}

func frame(box BoundingBox, fovDegrees float32, centered bool) Camera {
	center := mgl32.Vec3{}
	radius := float32(0)
	if !box.Empty() {
		center = box.Center()
		radius = box.Max.Sub(center).Len()
	}
	if !(radius >= MinFrameRadius) {
		radius = MinFrameRadius
	}

	fov := mgl32.DegToRad(fovDegrees)
	distance := radius / float32(math.Tan(float64(fov)))

	eye := mgl32.Vec3{0, 0, distance}
	if centered {
		eye = center.Add(eye)
	}
	up := mgl32.Vec3{0, 1, 0}
	near, far := distance-radius, distance+radius
	return Camera{
		Eye:         eye,
		Center:      center,
		Up:          up,
		FieldOfView: fovDegrees,
		Near:        near,
		Far:         far,
		View:        mgl32.LookAtV(eye, center, up),
		Projection:  mgl32.Perspective(2*fov, 1, near, far),
	}
}
