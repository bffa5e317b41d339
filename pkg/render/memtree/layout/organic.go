package layout

import (
	"math"
	"math/rand/v2"
)

// Organic branch lengths shrink geometrically so that the longest chain
// stays inside the frame: 0.6 + 0.6*0.4 + ... < 1.
const (
	organicFirst = 0.6
	organicDecay = 0.4
)

// placeOrganic grows the tree upwards from a root at the bottom centre.
// Depth-1 branches fan out over Spread degrees around the vertical trunk;
// deeper branches fan over a cone that halves at every level, centred on
// the parent's direction.
func placeOrganic(nodes []Node, o Options) {
	kids := children(nodes)
	innerH := o.Height - 2*o.margin()
	spread := o.Spread * math.Pi / 180
	jitter := o.Jitter * math.Pi / 180

	var rng *rand.Rand
	if jitter > 0 {
		rng = rand.New(rand.NewPCG(o.Seed, o.Seed^0xdeadbeef))
	}

	nodes[0].X = o.Width / 2
	nodes[0].Y = o.Height - o.margin()

	// Pre-order: a parent is always placed before its children.
	for i := range nodes {
		k := kids[i]
		if len(k) == 0 {
			continue
		}
		p := nodes[i]
		depth := p.Depth + 1
		cone := spread * math.Pow(0.5, float64(depth-1))
		length := innerH * organicFirst * math.Pow(organicDecay, float64(depth-1))

		for j, c := range k {
			theta := p.Angle
			if len(k) > 1 {
				theta += -cone/2 + float64(j)*cone/float64(len(k)-1)
			}
			if rng != nil {
				theta += (rng.Float64()*2 - 1) * jitter
			}
			nodes[c].Angle = theta
			nodes[c].Radius = length
			nodes[c].X = p.X + math.Sin(theta)*length
			nodes[c].Y = p.Y - math.Cos(theta)*length
		}
	}
}
