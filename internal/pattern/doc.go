// Package pattern implements compiled glob matching over slash-separated
// relative paths.
//
// A pattern is compiled once into a segment list and reused for every
// path test, so the walker's subtree pruning and the extra-file
// resolver's expansion share identical semantics. Matching is pure and
// total: any input string yields true or false, never a panic.
//
// The ancestor rule is the load-bearing subtlety: a pattern matching a
// directory also matches every file beneath it, which makes the result
// set identical whether the walker prunes matched directories early or
// files are filtered after a full walk.
package pattern
