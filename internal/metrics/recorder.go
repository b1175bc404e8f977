package metrics

import "time"

// DownloadResult enumerates remote image fetch outcomes.
type DownloadResult string

const (
	DownloadFetched DownloadResult = "fetched"
	DownloadCached  DownloadResult = "cached"
	DownloadFailed  DownloadResult = "failed"
)

// BuildOutcomeLabel enumerates final build states.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeWarning BuildOutcomeLabel = "warning"
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for image processing and builds.
type Recorder interface {
	IncDirective(name string)
	IncDirectiveError(name string)
	IncDownloadResult(result DownloadResult)
	ObserveDownloadDuration(d time.Duration)
	IncStaticAsset(kind string)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDirective(string)                   {}
func (NoopRecorder) IncDirectiveError(string)              {}
func (NoopRecorder) IncDownloadResult(DownloadResult)      {}
func (NoopRecorder) ObserveDownloadDuration(time.Duration) {}
func (NoopRecorder) IncStaticAsset(string)                 {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)    {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)     {}
