package geometry

// Mat4 is a 4×4 matrix stored row-major as a flat array.
type Mat4 [16]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromRows builds a matrix from four row vectors.
func Mat4FromRows(r0, r1, r2, r3 Vec4) Mat4 {
	return Mat4{
		r0[0], r0[1], r0[2], r0[3],
		r1[0], r1[1], r1[2], r1[3],
		r2[0], r2[1], r2[2], r2[3],
		r3[0], r3[1], r3[2], r3[3],
	}
}

// Mul returns a × b using the standard triple sum.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulVec4 multiplies the matrix by a column vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[r*4+c]
}

// Set assigns the element at row r, column c.
func (m *Mat4) Set(r, c int, v float64) {
	m[r*4+c] = v
}

// Row returns row r as a vector.
func (m Mat4) Row(r int) Vec4 {
	return Vec4{m[r*4], m[r*4+1], m[r*4+2], m[r*4+3]}
}

// SetRow assigns row r from a vector.
func (m *Mat4) SetRow(r int, v Vec4) {
	m[r*4], m[r*4+1], m[r*4+2], m[r*4+3] = v[0], v[1], v[2], v[3]
}
