package layout

import "math"

// slots assigns every node a position on the breadth axis: leaves take
// consecutive integers in pre-order, parents sit midway between their first
// and last child. It returns the slots and the number of leaves.
func slots(nodes []Node, kids [][]int) ([]float64, int) {
	s := make([]float64, len(nodes))
	leaves := 0
	for i := range nodes {
		if len(kids[i]) == 0 {
			s[i] = float64(leaves)
			leaves++
		}
	}
	// Children always follow their parent in pre-order.
	for i := len(nodes) - 1; i >= 0; i-- {
		if k := kids[i]; len(k) > 0 {
			s[i] = (s[k[0]] + s[k[len(k)-1]]) / 2
		}
	}
	return s, leaves
}

func placeTidy(nodes []Node, o Options) {
	s, leaves := slots(nodes, children(nodes))
	md := maxDepth(nodes)
	m := o.margin()
	innerW := o.Width - 2*m
	innerH := o.Height - 2*m

	for i := range nodes {
		b := 0.5
		if leaves > 1 {
			b = s[i] / float64(leaves-1)
		}
		d := 0.0
		if md > 0 {
			d = float64(nodes[i].Depth) / float64(md)
		}

		switch o.Kind {
		case Vertical:
			nodes[i].X = m + b*innerW
			nodes[i].Y = m + d*innerH
		case VerticalUp:
			nodes[i].X = m + b*innerW
			nodes[i].Y = o.Height - m - d*innerH
		case Horizontal:
			nodes[i].X = m + d*innerW
			nodes[i].Y = m + b*innerH
		}
	}
}

func placeRadial(nodes []Node, o Options) {
	s, leaves := slots(nodes, children(nodes))
	md := maxDepth(nodes)
	m := o.margin()
	maxR := math.Min(o.Width-2*m, o.Height-2*m) / 2
	cx, cy := o.Width/2, o.Height/2
	full := o.AngleSpan >= 2*math.Pi-1e-9

	for i := range nodes {
		var a float64
		switch {
		case leaves <= 1:
			a = 0
		case full:
			// The last slot must not wrap onto the first.
			a = s[i] / float64(leaves) * o.AngleSpan
		default:
			a = -o.AngleSpan/2 + s[i]/float64(leaves-1)*o.AngleSpan
		}
		r := 0.0
		if md > 0 {
			r = float64(nodes[i].Depth) / float64(md) * maxR
		}
		dx, dy := Polar(a, r)
		nodes[i].X = cx + dx
		nodes[i].Y = cy + dy
		nodes[i].Angle = a
		nodes[i].Radius = r
	}
}

// Polar converts an angle (radians, 0 pointing up, clockwise) and a radius
// into a Cartesian offset in SVG coordinates.
func Polar(angle, radius float64) (x, y float64) {
	return math.Cos(angle-math.Pi/2) * radius, math.Sin(angle-math.Pi/2) * radius
}
