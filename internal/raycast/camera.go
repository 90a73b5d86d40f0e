package raycast

import "math"

// Camera is the player's eye: position, facing and the camera plane that
// spans the field of view. The plane is perpendicular to the facing and
// its length is tan(fov/2).
type Camera struct {
	PosX, PosY     float64
	DirX, DirY     float64
	PlaneX, PlaneY float64
}

// NewCamera builds a camera at (x, y) looking along angle (radians, y grows
// south) with the given horizontal field of view.
func NewCamera(x, y, angle, fov float64) Camera {
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	planeLen := math.Tan(fov / 2)
	return Camera{
		PosX:   x,
		PosY:   y,
		DirX:   dirX,
		DirY:   dirY,
		PlaneX: -dirY * planeLen,
		PlaneY: dirX * planeLen,
	}
}

// Rotate turns the camera by angle radians, positive turning right.
func (c *Camera) Rotate(angle float64) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	c.DirX, c.DirY = c.DirX*cos-c.DirY*sin, c.DirX*sin+c.DirY*cos
	c.PlaneX, c.PlaneY = c.PlaneX*cos-c.PlaneY*sin, c.PlaneX*sin+c.PlaneY*cos
}

// Angle returns the facing in radians.
func (c Camera) Angle() float64 {
	return math.Atan2(c.DirY, c.DirX)
}

// RayDir returns the ray direction through the given screen column.
func (c Camera) RayDir(column, width int) (float64, float64) {
	cameraX := 2*float64(column)/float64(width) - 1
	return c.DirX + c.PlaneX*cameraX, c.DirY + c.PlaneY*cameraX
}
