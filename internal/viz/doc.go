// Package viz renders test patterns and their ground truth in the terminal.
//
//   - [PreviewModel]: Bubble Tea model showing live frames as half-block
//     characters with a blink/progress status line
//   - [HalfBlocks]: image to coloured text conversion used by the preview
//   - [PlotSeries], [Edges]: asciigraph timelines of element states, from a
//     fresh sample or from a stored run
//
// # Key Bindings
//
//	q, Esc, Ctrl+C - Stop the run
package viz
