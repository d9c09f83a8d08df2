// Package viz provides the terminal front end for ballpit.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: runs one scene at the configured frame rate
//   - [Canvas]: Braille-based pixel canvas with per-cell ink
//   - [RunInteractive]: preset picker in front of a Model
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Step one frame while paused
//	R     - Rebuild the scene
//	C     - Toggle contact lines
//	T     - Cycle color themes
//	?     - Show help overlay
//	[]/   - Time travel (rewind/forward)
//
// # Mouse
//
// A left drag moves the body or obstacle end under the cursor. A right
// drag aims from the body to the cursor; releasing throws the body with
// a velocity proportional to that offset.
package viz
