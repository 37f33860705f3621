// Package packager orchestrates one packaging run end to end.
//
// The pipeline is strictly sequential:
//
//	compile ignore patterns -> walk input dir -> resolve extras ->
//	merge into the selection set -> serialize each file -> write artifact
//
// Fatal conditions (bad input directory, malformed pattern, unwritable
// or locked output) abort before the output file is mutated. Per-file
// conditions (unreadable, binary content) are recorded in the Summary
// and the run continues. The output file handle is the only shared
// mutable resource and is owned by the packager for the run's duration,
// released on every exit path.
package packager
