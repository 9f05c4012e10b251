// Package viz renders transport results in the terminal.
//
// [Report] draws a finished run: the summary, the first-collision angular
// histogram and any line scores. [Model] is a Bubble Tea program that runs
// histories in batches and redraws after each one.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Discard the tallies and start over
//	T     - Cycle color themes
//	Q     - Quit
package viz
