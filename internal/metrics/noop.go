package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncBookCreated is a no-op.
func (n *NoopRecorder) IncBookCreated() {}

// IncBookDeleted is a no-op.
func (n *NoopRecorder) IncBookDeleted() {}

// IncNoteCreated is a no-op.
func (n *NoopRecorder) IncNoteCreated() {}

// IncNoteDeleted is a no-op.
func (n *NoopRecorder) IncNoteDeleted() {}

// IncLibraryCreated is a no-op.
func (n *NoopRecorder) IncLibraryCreated() {}

// IncLibraryMutation is a no-op.
func (n *NoopRecorder) IncLibraryMutation(op string) {}

// IncLibraryCacheHit is a no-op.
func (n *NoopRecorder) IncLibraryCacheHit() {}

// IncLibraryCacheMiss is a no-op.
func (n *NoopRecorder) IncLibraryCacheMiss() {}
