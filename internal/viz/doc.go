// Package viz draws a running network in the terminal.
//
// [Model] is a Bubble Tea program that advances a [sim.World] one frame per
// tick and renders it on a braille [Canvas] through a rotatable [Camera],
// next to a stats panel with a plot of the alive count.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Advance a single frame
//	R     - Revive every node, generation 0
//	Tab   - Select repulsion, connection distance or speed
//	Up/Dn - Tune the selected parameter by 5%
//	[ ]   - Move the node cursor
//	D/V   - Kill/Revive the node under the cursor
//	A     - Add a node next to the cursor
//	X/Y   - Rotate, +/- zoom, B bounds cube
//
// Config reloads sent through [Model.WithReloads] are applied on the fly.
package viz
