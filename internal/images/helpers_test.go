package images

import (
	"io/fs"
	"strings"
	"sync"
	"testing/fstest"

	"git.home.luguber.info/inful/docimages/internal/host"
	"git.home.luguber.info/inful/docimages/internal/metrics"
)

// fakeBackend renders a compact marker for html and falls back elsewhere.
type fakeBackend struct {
	BaseBackend
	files fstest.MapFS
}

func (b *fakeBackend) Name() string { return "Fake" }

func (b *fakeBackend) VisitImageHTML(w host.Writer, n *ImageNode) error {
	w.WriteString(`<fake src="` + n.URI + `" group="` + n.Group + `" title="` + n.Title +
		`" content="` + n.Content + `" classes="` + strings.Join(n.Classes, " ") + `">`)
	return nil
}

func (b *fakeBackend) DepartImageHTML(w host.Writer, _ *ImageNode) error {
	w.WriteString("</fake>")
	return nil
}

func (b *fakeBackend) StaticFiles() (fs.FS, []string) {
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	return b.files, names
}

func (b *fakeBackend) ExternalAssets() []string {
	return []string{"https://cdn.example.com/lib.js?v=2", "https://cdn.example.com/lib.css"}
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu        sync.Mutex
	downloads map[metrics.DownloadResult]int
	assets    map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		downloads: map[metrics.DownloadResult]int{},
		assets:    map[string]int{},
	}
}

func (r *countingRecorder) IncDownloadResult(res metrics.DownloadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloads[res]++
}

func (r *countingRecorder) IncStaticAsset(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[kind]++
}
