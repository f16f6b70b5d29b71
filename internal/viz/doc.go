// Package viz draws a running system in the terminal.
//
//   - [Model]: Bubble Tea program that steps an integrator on every tick
//   - [Picker]: preset menu that hands over to a [Model]
//   - [Watcher]: plain frame printer for headless runs
//   - [Canvas]: braille dot canvas with per-cell colour
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single step while paused
//	R     - Reset to the initial state
//	+/-   - Zoom
//	[ ]   - Halve/double steps per frame
//	T     - Toggle trails
//	C     - Cycle themes
//	?     - Help overlay
//
// A step failure halts the view and is shown in the side panel; it is also
// returned by [Run] once the program exits.
package viz
