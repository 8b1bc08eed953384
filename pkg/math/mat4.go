package math

import "math"

// Mat4 is a 4x4 matrix stored column-major, the layout OpenGL uniforms
// expect. Element (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float32 { return m[c*4+r] }

// Identity returns the identity matrix.
func Identity() Mat4 { return Scale(1, 1, 1) }

// Scale returns a matrix scaling each axis independently.
func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// Translate returns a matrix moving points by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Perspective returns a right-handed projection into OpenGL clip space.
// fovY is the vertical field of view in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := 1 / (near - far)
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: (far + near) * depth,
		11: -1,
		14: 2 * far * near * depth,
	}
}

// LookAt returns a view matrix for an eye looking at center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		0: s.X, 4: s.Y, 8: s.Z, 12: -s.Dot(eye),
		1: u.X, 5: u.Y, 9: u.Z, 13: -u.Dot(eye),
		2: -f.X, 6: -f.Y, 10: -f.Z, 14: f.Dot(eye),
		15: 1,
	}
}

// Mul returns m * o, so o is applied first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.At(r, k) * o.At(k, c)
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformPoint applies m to p with w = 1, dividing through by the
// resulting w when it is not 0 or 1.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	var v [4]float32
	for r := range v {
		v[r] = m.At(r, 0)*p.X + m.At(r, 1)*p.Y + m.At(r, 2)*p.Z + m.At(r, 3)
	}
	if w := v[3]; w != 0 && w != 1 {
		return Vec3{v[0] / w, v[1] / w, v[2] / w}
	}
	return Vec3{v[0], v[1], v[2]}
}

// Ptr returns a pointer to the first element for gl.UniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
