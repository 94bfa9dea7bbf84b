package math

import "math"

// Mat4 is a float32 matrix laid out for direct upload to GL ([col][row]).
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

// MulPoint transforms a point as a row vector, matching the GLSL column-vector
// multiply on the uploaded matrix.
func (m Mat4) MulPoint(x, y, z float32) (float32, float32, float32, float32) {
	return x*m[0][0] + y*m[1][0] + z*m[2][0] + m[3][0],
		x*m[0][1] + y*m[1][1] + z*m[2][1] + m[3][1],
		x*m[0][2] + y*m[1][2] + z*m[2][2] + m[3][2],
		x*m[0][3] + y*m[1][3] + z*m[2][3] + m[3][3]
}

func Mat4Translation(x, y, z float32) Mat4 {
	m := Mat4Identity()
	m[3][0] = x
	m[3][1] = y
	m[3][2] = z
	return m
}

func Mat4Scale(x, y, z float32) Mat4 {
	m := Mat4Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

func Mat4RotationX(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationY(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := float32(math.Tan(float64(fovY) / 2))

	m := Mat4Zero()
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

// Mat4MapView builds the view matrix for a map-space eye. Map space is Z-up
// with yaw measured from +X; GL eye space looks down -Z with Y up. A mirrored
// view flips eye-space X, which the caller compensates with front-face winding.
func Mat4MapView(eye Vec3, yaw, pitch Angle, mirror bool) Mat4 {
	// map (x, y, z) -> GL (x, z, -y)
	toGL := Mat4{
		{1, 0, 0, 0},
		{0, 0, -1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}
	m := Mat4Translation(float32(-eye.X), float32(-eye.Y), float32(-eye.Z)).
		Mul(toGL).
		Mul(Mat4RotationY(float32((90 - yaw).Radians()))).
		Mul(Mat4RotationX(float32(pitch.Radians())))
	if mirror {
		m = m.Mul(Mat4Scale(-1, 1, 1))
	}
	return m
}
