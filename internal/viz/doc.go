// Package viz renders physlab results in the terminal.
//
// Static output is built from numbered [Figure] values drawn with asciigraph.
// Figure numbers come from an explicit [FigureSeq] that the caller threads
// through every plotting call:
//
//	seq := viz.NewFigureSeq()
//	for _, fig := range viz.TrajectoryFigures(seq, tr, rel) {
//		fmt.Println(fig)
//	}
//
// [Replay] is a Bubble Tea model that plays back a finished trajectory on a
// Braille [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Rewind to the first sample
//	[ ]   - Step one sample back/forward
//	+ -   - Change playback speed
//	?     - Show help overlay
//	Q     - Quit
package viz
