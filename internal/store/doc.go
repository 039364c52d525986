// Package store keeps the in-memory changelog collection and persists it.
//
// A Store is opened from a Backend, which supplies the whole document text
// on Load and accepts the whole rewritten text on Save. Every mutation
// builds a new collection, serializes it, saves it, and only then swaps it
// in, so a failed save leaves the in-memory collection untouched.
//
// A Store is meant for a single writer. FileBackend can hold an advisory
// lock around each read and write, but there is no conflict detection
// between stores that target the same file: the last save wins.
package store
