package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncDirective("thumbnail")
	pr.IncDirective("thumbnail")
	pr.IncDownloadResult(DownloadFetched)
	pr.IncDownloadResult(DownloadCached)
	pr.ObserveDownloadDuration(150 * time.Millisecond)
	pr.IncStaticAsset("css")
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.directives.WithLabelValues("thumbnail")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.downloads.WithLabelValues("cached")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncDownloadResult(DownloadFailed)

	path := filepath.Join(t.TempDir(), "docimages.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docimages_remote_images_total{result="failed"} 1`)
}

func TestWriteTextfileNilRegistry(t *testing.T) {
	assert.Error(t, WriteTextfile(nil, filepath.Join(t.TempDir(), "x.prom")))
}
