// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncSignup()
	IncLogin(status string) // status: "success" or "failure"

	// Resource metrics
	IncBookCreated()
	IncBookDeleted()
	IncNoteCreated()
	IncNoteDeleted()
	IncLibraryCreated()
	IncLibraryMutation(op string) // op: "add_book" or "remove_book"

	// Library cache metrics
	IncLibraryCacheHit()
	IncLibraryCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
