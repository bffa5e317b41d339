// Package layout computes 2D positions for a memory tree.
//
// [Compute] takes an assembled [tree.Entity] and an [Options] value and
// returns a [Layout]: one [Node] per entity in pre-order (the root first)
// and one [Edge] per parent-child link, each with an SVG path.
//
// # Kinds
//
//   - [Vertical]: depth grows downwards, siblings spread horizontally
//   - [VerticalUp]: as Vertical, but the tree grows upwards from a bottom root
//   - [Horizontal]: depth grows to the right, siblings spread vertically
//   - [Radial]: depth maps to radius, siblings spread over an angular span
//   - [Organic]: branches fanned around a vertical trunk with curved edges
//
// The first four use tidy placement: leaves take consecutive slots and every
// parent is centred between its first and last child. They are pure
// functions of the tree shape and the frame size.
//
// Organic layouts may perturb branch angles by up to Options.Jitter degrees.
// The perturbation comes from a PCG source seeded with Options.Seed, so a
// fixed seed (or zero jitter) yields identical coordinates on every run.
//
// Radial nodes keep their polar coordinates in Node.Angle and Node.Radius;
// [Polar] converts them back to the Cartesian offset from the frame centre.
package layout
