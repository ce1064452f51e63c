package handler

import (
	"fmt"
	"net/http"

	"github.com/libretto/libretto/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "libretto_signups_total %d\n", snap.Signups)
	writeMetric(w, "libretto_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "libretto_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)

	writeMetric(w, "libretto_books_created_total %d\n", snap.BooksCreated)
	writeMetric(w, "libretto_books_deleted_total %d\n", snap.BooksDeleted)
	writeMetric(w, "libretto_notes_created_total %d\n", snap.NotesCreated)
	writeMetric(w, "libretto_notes_deleted_total %d\n", snap.NotesDeleted)

	writeMetric(w, "libretto_libraries_created_total %d\n", snap.LibrariesCreated)
	writeMetric(w, "libretto_library_books_added_total %d\n", snap.LibraryBooksAdded)
	writeMetric(w, "libretto_library_books_removed_total %d\n", snap.LibraryBooksRemoved)

	writeMetric(w, "libretto_library_cache_hits_total %d\n", snap.LibraryCacheHits)
	writeMetric(w, "libretto_library_cache_misses_total %d\n", snap.LibraryCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
