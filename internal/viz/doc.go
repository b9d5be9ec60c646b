// Package viz renders trajectories and run summaries in the terminal.
//
// Static output uses asciigraph line charts and a braille [Canvas] for phase
// portraits. [Player] is a Bubble Tea program that steps through a recorded
// trajectory.
//
// # Player keys
//
//	Space - Play/Pause
//	←/→   - Step one sample
//	[/]   - Jump ten percent
//	Tab   - Next component
//	P     - Toggle phase view
//	Q     - Quit
package viz
