// Package control turns pointer input into direct manipulation of a world.
//
// A [Manipulator] tracks at most one selected body and one selected
// obstacle end between a press and the matching release:
//
//   - primary press and drag moves the body, or the obstacle end, to the cursor
//   - secondary press and release throws the body away from the cursor with
//     velocity [ThrowGain] times (body - cursor)
//
// Selections are held as handles, never pointers, so they stay valid while
// the world keeps simulating.
//
// # Usage
//
//	m := control.NewManipulator(world)
//	m.Press(x, y, control.Secondary)
//	// ... world.Advance(dt) while the user aims
//	from, to, ok := m.Cue() // draw the aiming line
//	m.Release(x2, y2, control.Secondary)
//
// A Manipulator is not safe for concurrent use; drive it from the same
// goroutine that advances the world.
package control
