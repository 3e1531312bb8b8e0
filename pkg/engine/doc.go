// Package engine runs the HTTP server and dispatches requests to the
// resource store. Every resource route passes through the simulation
// pipeline before any store access.
package engine
