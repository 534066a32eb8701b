// Package viz renders Monte-Carlo runs in the terminal.
//
// The package provides:
//
//   - [Plot]: an ASCII line chart of an energy series
//   - [LiveModel]: a Bubble Tea program that advances an engine one cycle
//     per tick and shows the energy trace and the particle box
//   - [Canvas]: a Braille pixel canvas used for the box view
//   - lipgloss styles shared with the command line summaries
//
// # Key Bindings
//
//	Space - Pause/Resume sampling
//	←/→   - Rotate box about the vertical axis
//	↑/↓   - Tilt box
//	+/-   - Zoom
//	Q     - Quit
package viz
