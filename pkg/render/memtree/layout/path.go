package layout

import (
	"fmt"
	"math"
	"strings"
)

type point struct{ x, y float64 }

func straightPath(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf("M%.2f,%.2f L%.2f,%.2f", x1, y1, x2, y2)
}

// curvedPath draws start, a midpoint lifted by lift times the edge length,
// and end as one smooth curve.
func curvedPath(x1, y1, x2, y2, lift float64) string {
	dist := math.Hypot(x2-x1, y2-y1)
	mid := point{(x1 + x2) / 2, (y1+y2)/2 - lift*dist}
	return catmullRom([]point{{x1, y1}, mid, {x2, y2}})
}

// catmullRom interpolates pts with a uniform Catmull-Rom spline and writes
// it as cubic Bézier segments. The end points are duplicated so the curve
// passes through every point.
func catmullRom(pts []point) string {
	if len(pts) < 2 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%.2f,%.2f", pts[0].x, pts[0].y)
	at := func(i int) point {
		return pts[max(0, min(i, len(pts)-1))]
	}
	for i := 0; i < len(pts)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		c1 := point{p1.x + (p2.x-p0.x)/6, p1.y + (p2.y-p0.y)/6}
		c2 := point{p2.x - (p3.x-p1.x)/6, p2.y - (p3.y-p1.y)/6}
		fmt.Fprintf(&b, " C%.2f,%.2f %.2f,%.2f %.2f,%.2f", c1.x, c1.y, c2.x, c2.y, p2.x, p2.y)
	}
	return b.String()
}
