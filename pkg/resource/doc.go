// Package resource implements the in-memory collection store and the
// pagination engine.
//
// A Store holds named collections that are created lazily on first
// reference. Each collection assigns strictly increasing integer ids
// that are never reused, and isolates stored payloads from callers by
// deep-copying on both write and read.
package resource
