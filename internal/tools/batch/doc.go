// Package batch runs one operation over several IDs and reports per-item
// outcomes, so that a failure on one video does not hide the others.
//
// Tools such as youtube_add_to_playlist accept a single ID, an array, or a
// JSON array encoded as a string; ParseStringOrArray normalizes all three.
package batch
