/*
Package filesystem wraps os.Stat and os.Open with retry logic for NFS stale
file handle (ESTALE) errors.

Media roots are often network mounts. A stale handle is transient, so the
operation is retried with capped exponential backoff; every other error is
returned immediately.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig("root"))

Retry activity is reported through an Observer installed with SetObserver;
the metrics package provides the Prometheus implementation. Without an
observer nothing is recorded, which keeps tests free of global state.
*/
package filesystem
