package geometry

// Ray walks the integer pixels of a line segment with Bresenham stepping,
// one pixel per unit step along the major axis. Callers pull coordinates
// with Next until Reached is set; the final endpoint itself may be skipped
// by the termination check, so callers draw it explicitly first.
type Ray struct {
	X0, Y0, X1, Y1 int
	Reached        bool

	sx, sy int
	dx, dy int
	acc    int
	x, y   int
	xMajor bool
}

// NewRay sets up a Bresenham walk from (x0,y0) to (x1,y1). The major axis is
// chosen once here and stored as a flag.
func NewRay(x0, y0, x1, y1 int) *Ray {
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	r := &Ray{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		sx: sx, sy: sy,
		dx: dx, dy: dy,
		x: x0, y: y0,
		xMajor: dy < dx,
	}
	if r.xMajor {
		r.Reached = r.x == r.X1
		r.acc = -dx
	} else {
		r.Reached = r.y == r.Y1
		r.acc = -dy
	}
	return r
}

// Next returns the current pixel and advances one step along the major axis.
func (r *Ray) Next() (int, int) {
	x, y := r.x, r.y
	if r.xMajor {
		r.acc += r.dy + r.dy
		if r.acc >= 0 {
			r.y += r.sy
			r.acc -= r.dx + r.dx
		}
		r.x += r.sx
		if r.x == r.X1 {
			r.Reached = true
		}
	} else {
		r.acc += r.dx + r.dx
		if r.acc >= 0 {
			r.x += r.sx
			r.acc -= r.dy + r.dy
		}
		r.y += r.sy
		if r.y == r.Y1 {
			r.Reached = true
		}
	}
	return x, y
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
