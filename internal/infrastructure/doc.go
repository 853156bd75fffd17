// Package infrastructure builds the cross-cutting runtime pieces: the
// structured logger and the OpenTelemetry providers.
//
// Nothing here installs process-global state on its own; constructed
// loggers are handed to their consumers explicitly so independent pipeline
// instances can run with independent diagnostic destinations.
package infrastructure
