package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docimages"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	directives       *prom.CounterVec
	directiveErrors  *prom.CounterVec
	downloads        *prom.CounterVec
	downloadDuration prom.Histogram
	staticAssets     *prom.CounterVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		directives: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Image directives processed by directive name",
		}, []string{"directive"}),
		directiveErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directive_errors_total",
			Help:      "Image directives rejected by directive name",
		}, []string{"directive"}),
		downloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "remote_images_total",
			Help:      "Remote image cache outcomes",
		}, []string{"result"}),
		downloadDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_image_download_seconds",
			Help:      "Duration of remote image downloads",
			Buckets:   prom.DefBuckets,
		}),
		staticAssets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "static_assets_installed_total",
			Help:      "Backend static files copied into the output by kind",
		}, []string{"kind"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.directives, pr.directiveErrors, pr.downloads, pr.downloadDuration,
		pr.staticAssets, pr.buildDuration, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) IncDirective(name string) {
	if p == nil {
		return
	}
	p.directives.WithLabelValues(name).Inc()
}

func (p *PrometheusRecorder) IncDirectiveError(name string) {
	if p == nil {
		return
	}
	p.directiveErrors.WithLabelValues(name).Inc()
}

func (p *PrometheusRecorder) IncDownloadResult(result DownloadResult) {
	if p == nil {
		return
	}
	p.downloads.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveDownloadDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.downloadDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStaticAsset(kind string) {
	if p == nil {
		return
	}
	p.staticAssets.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}
