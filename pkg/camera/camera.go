package camera

import (
	"math"
	"math/rand"

	"github.com/dusk-path/pathtracer/pkg/core"
)

// worldUp is the constant reference used to derive the camera's orthonormal
// basis; only look_at's forward vector actually varies per shot.
var worldUp = core.NewVec3(0, 1, 0)

// Camera is a right-handed pinhole camera with optional thin-lens defocus.
type Camera struct {
	position core.Vec3
	forward  core.Vec3
	right    core.Vec3
	up       core.Vec3

	width, height int
	aspectRatio   float64
	vfov          float64 // vertical field of view, degrees
	aperture      float64 // angular radius, degrees
	focusDistance float64

	halfHeight float64
	halfWidth  float64
}

// New builds a camera looking from position toward target, with the given
// image dimensions, vertical FOV in degrees, aperture angular radius in
// degrees (0 disables defocus blur), and focus distance in world units (0
// disables defocus blur regardless of aperture).
func New(position, target core.Vec3, width, height int, vfovDegrees, apertureDegrees, focusDistance float64) *Camera {
	c := &Camera{
		width:         width,
		height:        height,
		aspectRatio:   float64(width) / float64(height),
		vfov:          vfovDegrees,
		aperture:      apertureDegrees,
		focusDistance: focusDistance,
	}
	c.LookAt(position, target)
	return c
}

// LookAt repositions the camera and rebuilds its orthonormal basis
// {right, up, forward} from the constant world-up axis.
func (c *Camera) LookAt(position, target core.Vec3) {
	c.position = position
	c.SetForward(target.Subtract(position).Normalize())
}

// SetPosition moves the camera without changing its orientation.
func (c *Camera) SetPosition(position core.Vec3) {
	c.position = position
}

// SetForward reorients the camera to the given forward direction, rebuilding
// right and up: right = forward x world_up, up = right x forward.
func (c *Camera) SetForward(forward core.Vec3) {
	c.forward = forward.Normalize()
	c.right = c.forward.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.forward).Normalize()

	halfHeight := math.Tan(c.vfov * math.Pi / 180 / 2)
	c.halfHeight = halfHeight
	c.halfWidth = c.aspectRatio * halfHeight
}

// GetRay generates a camera ray through pixel (x, y), jittered within the
// pixel for anti-aliasing and perturbed by the thin lens when aperture and
// focus distance are both positive.
func (c *Camera) GetRay(x, y int, random *rand.Rand) core.Ray {
	jitterX := random.Float64() - 0.5
	jitterY := random.Float64() - 0.5

	u := (float64(x) + 0.5 + jitterX) / float64(c.width)
	v := (float64(y) + 0.5 + jitterY) / float64(c.height)

	ndcU := 2*u - 1
	ndcV := 1 - 2*v // flip Y for standard image-space origin

	viewPoint := c.position.
		Add(c.forward).
		Add(c.right.Multiply(2 * c.halfWidth * ndcU)).
		Subtract(c.up.Multiply(2 * c.halfHeight * ndcV))

	direction := viewPoint.Subtract(c.position).Normalize()

	origin := c.position
	if c.aperture > 0 && c.focusDistance > 0 {
		lensRadius := c.focusDistance * math.Tan(c.aperture*math.Pi/180/2)
		disk := core.RandomInUnitDisk(random)
		offset := c.right.Multiply(disk.X * lensRadius).Add(c.up.Multiply(disk.Y * lensRadius))

		focusPoint := c.position.Add(direction.Multiply(c.focusDistance))
		origin = c.position.Add(offset)
		direction = focusPoint.Subtract(origin).Normalize()
	}

	return core.NewRay(origin, direction)
}

// Forward returns the camera's current look direction.
func (c *Camera) Forward() core.Vec3 { return c.forward }

// Position returns the camera's eye point.
func (c *Camera) Position() core.Vec3 { return c.position }
