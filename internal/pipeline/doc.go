// Package pipeline runs one pass over a working directory: discovery, the
// concurrent automatic pass, the optional manual-assignment phase, and the
// run summary.
//
// Each media file moves Discovered → Located → Parsed → Applied → Recorded
// on a single worker. Workers share the read-only record index and report
// to one [Collector]; no other state is shared. Cancellation is honored
// between files. The manual phase runs on the calling goroutine after every
// worker has stopped.
package pipeline
