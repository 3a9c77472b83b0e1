package geometry

// Line2D is a 2D line segment between (X0,Y0) and (X1,Y1).
type Line2D struct {
	X0, Y0, X1, Y1 float64
}

// Cohen–Sutherland outcodes:
//
//	         left    central right
//	top      1001    1000    1010
//	central  0001    0000    0010
//	bottom   0101    0100    0110
const (
	outInside uint8 = 0b0000
	outLeft   uint8 = 0b0001
	outRight  uint8 = 0b0010
	outBottom uint8 = 0b0100
	outTop    uint8 = 0b1000
)

func outcode(x, y, xMin, yMin, xMax, yMax float64) uint8 {
	code := outInside
	if x < xMin {
		code |= outLeft
	} else if x > xMax {
		code |= outRight
	}
	if y < yMin {
		code |= outBottom
	} else if y > yMax {
		code |= outTop
	}
	return code
}

// BoxClip clips the segment against the axis-aligned rectangle
// [xMin,xMax]×[yMin,yMax] using the Cohen–Sutherland algorithm. The second
// return value is false when the segment lies fully outside the rectangle or
// the rectangle is degenerate.
func (l Line2D) BoxClip(xMin, yMin, xMax, yMax float64) (Line2D, bool) {
	if xMax < xMin || yMax < yMin {
		return Line2D{}, false
	}

	line := l
	codeStart := outcode(line.X0, line.Y0, xMin, yMin, xMax, yMax)
	codeEnd := outcode(line.X1, line.Y1, xMin, yMin, xMax, yMax)

	for {
		if codeStart|codeEnd == 0 {
			// both endpoints inside the window
			return line, true
		}
		if codeStart&codeEnd != 0 {
			// both endpoints share an outside region, cannot cross the window
			return Line2D{}, false
		}

		// Pick an endpoint outside the window. The inside outcode is zero,
		// so the larger of the two is guaranteed to be outside.
		codeOut := codeStart
		if codeEnd > codeOut {
			codeOut = codeEnd
		}

		// Intersect with the boundary the outcode flags. The tested bit
		// guarantees the divisor is nonzero.
		dx := line.X1 - line.X0
		dy := line.Y1 - line.Y0
		var x, y float64
		switch {
		case codeOut&outTop != 0:
			x = line.X0 + (yMax-line.Y0)/dy*dx
			y = yMax
		case codeOut&outBottom != 0:
			x = line.X0 + (yMin-line.Y0)/dy*dx
			y = yMin
		case codeOut&outRight != 0:
			y = line.Y0 + (xMax-line.X0)/dx*dy
			x = xMax
		default:
			y = line.Y0 + (xMin-line.X0)/dx*dy
			x = xMin
		}

		// Move the outside endpoint to the intersection and go again.
		if codeOut == codeStart {
			line.X0, line.Y0 = x, y
			codeStart = outcode(x, y, xMin, yMin, xMax, yMax)
		} else {
			line.X1, line.Y1 = x, y
			codeEnd = outcode(x, y, xMin, yMin, xMax, yMax)
		}
	}
}
