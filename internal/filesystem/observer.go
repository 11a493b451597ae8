package filesystem

// Observer records retry metrics. Implementations are provided by the
// metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	ObserveRetryAttempt(op, volume string)
	ObserveRetrySuccess(op, volume string)
	ObserveRetryFailure(op, volume string)
	ObserveRetryDuration(op, volume string, durationSeconds float64)
	ObserveStaleError(op, volume string)
}

type nopObserver struct{}

func (nopObserver) ObserveRetryAttempt(string, string)           {}
func (nopObserver) ObserveRetrySuccess(string, string)           {}
func (nopObserver) ObserveRetryFailure(string, string)           {}
func (nopObserver) ObserveRetryDuration(string, string, float64) {}
func (nopObserver) ObserveStaleError(string, string)             {}

var defaultObserver Observer = nopObserver{}

// SetObserver sets the package-level metrics observer. Call it once at
// startup; nil restores the no-op observer.
func SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	defaultObserver = o
}
