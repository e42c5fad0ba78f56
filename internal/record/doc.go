// Package record writes generated frames to disk.
//
// Every sink implements [Sink]. Video files are produced by piping raw rgb24
// frames into an ffmpeg subprocess; GIF and PNG outputs are encoded in
// process. All sinks write into a temporary file next to the target and
// rename it into place on a successful Close, so an interrupted or failed
// run never leaves a half-written file under the requested name.
//
// Use [Resolve] to turn a user supplied output path and optional codec into
// a [Target], then [Open] to build the matching sink:
//
//	target, err := record.Resolve("cycle_mosaic_1.mp4", "")
//	sink, err := record.Open(target, 300, 345, 30)
//	defer sink.Close()
package record
