package math32

import "math"

// Quat is a rotation quaternion (w + xi + yj + zk).
type Quat struct {
	W, X, Y, Z float32
}

// AxisAngle returns the unit quaternion rotating by angle radians around
// axis. The axis is normalized internally; a zero axis yields the identity
// rotation.
func AxisAngle(axis Vec3, angle float32) Quat {
	n := axis.Normalize()
	if n == (Vec3{}) {
		return Quat{W: 1}
	}
	half := float64(angle) / 2
	s := float32(math.Sin(half))
	return Quat{
		W: float32(math.Cos(half)),
		X: n.X * s,
		Y: n.Y * s,
		Z: n.Z * s,
	}
}

// Mat4 converts the quaternion to a rotation matrix. The quaternion is
// assumed to be unit length.
func (q Quat) Mat4() Mat4 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Rotation returns the matrix rotating by angle radians around axis.
func Rotation(axis Vec3, angle float32) Mat4 {
	return AxisAngle(axis, angle).Mat4()
}
