// Package engine advances the rigid-body world through fixed time
// steps. Each step applies gravity, collides the shapes in a broad
// phase and a narrow phase, solves the resulting contact constraints
// with an iterative projected Gauss-Seidel sweep, integrates poses, and
// discards the tick's temporary contact constraints.
//
// A [World] is an explicit context object: independent worlds can be
// stepped side by side and nothing in this package is process-global.
// Stepping is single-threaded; a step is atomic from the caller's view.
package engine
