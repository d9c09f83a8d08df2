// Package physics provides the bodies, obstacles and collision math of the
// ball pit simulation.
//
// The package knows how to store state and how to resolve a single
// contact. The sim package decides when and in which order that happens.
//
//   - [Body]: a movable circular mass
//   - [Obstacle]: a static capsule (segment with thickness)
//   - [Contact]: transient stand-in for an obstacle's nearest point
//   - [Pair]: one detected overlap, rebuilt every substep
//
// # Degenerate Contacts
//
// Coincident centers have no collision normal. Every resolver treats a
// center distance at or below [MinSeparation] as a silent no-op instead of
// dividing by zero.
//
//	if d, ok := physics.Overlap(a, b); ok {
//	    physics.Separate(a, b, d)
//	    physics.Bounce(a, b)
//	}
package physics
