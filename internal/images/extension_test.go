package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docimages/internal/config"
	ferrors "git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/host"
)

var extensionSeq atomic.Int32

// registerTestExtension installs the extension under a fresh name so each
// test can pick its own options.
func registerTestExtension(opts ...Option) string {
	name := fmt.Sprintf("images-test-%d", extensionSeq.Add(1))
	host.RegisterExtension(name, NewSetup(opts...))
	return name
}

func fakeFactory(app *host.App, _ Config) (Backend, error) {
	return &fakeBackend{
		BaseBackend: BaseBackend{App: app},
		files: fstest.MapFS{
			"fake/app.js":    {Data: []byte("// js")},
			"fake/style.css": {Data: []byte("a{}")},
			"fake/logo.svg":  {Data: []byte("<svg/>")},
		},
	}, nil
}

type site struct {
	src string
	out string
}

func buildSite(t *testing.T, ext, builder, imagesYAML string, files map[string]string, opts ...host.Option) (site, *host.Report, error) {
	t.Helper()
	root := t.TempDir()
	s := site{src: filepath.Join(root, "docs"), out: filepath.Join(root, "site")}
	for name, content := range files {
		p := filepath.Join(s.src, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	require.NoError(t, os.MkdirAll(s.src, 0o755))

	var b strings.Builder
	fmt.Fprintf(&b, "source_dir: %q\noutput:\n  directory: %q\n  clean: true\nbuilder: %s\nextensions: [%s]\n",
		s.src, s.out, builder, ext)
	if imagesYAML != "" {
		b.WriteString("images:\n")
		for _, line := range strings.Split(strings.TrimSpace(imagesYAML), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	cfg, err := config.Parse([]byte(b.String()))
	require.NoError(t, err)

	app, err := host.New(cfg, opts...)
	require.NoError(t, err)
	report, err := app.Build(context.Background())
	return s, report, err
}

func (s site) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.out, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestExtensionBuildsThumbnails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()
	remoteURL := srv.URL + "/remote.png"
	cached := CachedPath("_cache", remoteURL)

	rec := newCountingRecorder()
	ext := registerTestExtension(WithBackendFactory(fakeFactory))
	s, report, err := buildSite(t, ext, "html", "cache_path: _cache", map[string]string{
		"index.md": "# Gallery\n\n" +
			":::thumbnail img/local.png\n:group: g1\n:class: wide\n:title: Local\nCaption text\n:::\n\n" +
			":::thumbnail " + remoteURL + "\n:::\n\n" +
			":::thumbnail missing.png\n:::\n",
		"img/local.png": "png",
	}, host.WithRecorder(rec))
	require.NoError(t, err)

	index := s.read(t, "index.html")
	assert.Contains(t, index, `<fake src="img/local.png" group="g1" title="Local" content="Caption text" classes="wide"></fake>`)
	assert.Contains(t, index, `<fake src="`+cached+`"`)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "thumbnail", report.Issues[0].Directive)
	assert.Equal(t, 13, report.Issues[0].Line)
	assert.Contains(t, report.Issues[0].Message, "Image URI `missing.png`")

	assert.FileExists(t, filepath.Join(s.src, filepath.FromSlash(cached)))
	assert.FileExists(t, filepath.Join(s.out, "_images", "local.png"))
	assert.FileExists(t, filepath.Join(s.out, "_images", filepath.Base(cached)))

	staticDir := filepath.Join(s.out, "_static", "docimages", "Fake", "fake")
	assert.FileExists(t, filepath.Join(staticDir, "app.js"))
	assert.FileExists(t, filepath.Join(staticDir, "style.css"))
	assert.FileExists(t, filepath.Join(staticDir, "logo.svg"))

	external := strings.Index(index, "https://cdn.example.com/lib.js")
	local := strings.Index(index, `src="_static/docimages/Fake/fake/app.js"`)
	require.NotEqual(t, -1, external)
	require.NotEqual(t, -1, local)
	assert.Less(t, external, local, "external assets are registered first")
	assert.Contains(t, index, `href="_static/docimages/Fake/fake/style.css"`)
	assert.Contains(t, index, `href="https://cdn.example.com/lib.css"`)

	assert.Equal(t, 2, rec.assets["external"])
	assert.Equal(t, 1, rec.assets["js"])
	assert.Equal(t, 1, rec.assets["css"])
	assert.Equal(t, 1, rec.assets["svg"])
}

func TestExtensionTextBuilderUsesFallback(t *testing.T) {
	ext := registerTestExtension(WithBackendFactory(fakeFactory))
	s, _, err := buildSite(t, ext, "text", "", map[string]string{
		"index.md": ":::thumbnail a.png\n:alt: A diagram\n:::\n\nAfter the image.\n",
		"a.png":    "png",
	})
	require.NoError(t, err)
	assert.Equal(t, "[image: A diagram]\n\nAfter the image.\n", s.read(t, "index.txt"))
}

func TestExtensionOverrideImageDirective(t *testing.T) {
	files := map[string]string{"index.md": ":::image a.png\n:::\n", "a.png": "png"}

	ext := registerTestExtension(WithBackendFactory(fakeFactory))
	s, _, err := buildSite(t, ext, "html", "override_image_directive: true", files)
	require.NoError(t, err)
	assert.Contains(t, s.read(t, "index.html"), `<fake src="a.png"`)

	ext = registerTestExtension(WithBackendFactory(fakeFactory))
	s, _, err = buildSite(t, ext, "html", "", files)
	require.NoError(t, err)
	assert.Contains(t, s.read(t, "index.html"), ":::image a.png")
}

func TestExtensionUnknownBackend(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(BackendInfo{Name: "Fake", Package: "p", Factory: fakeFactory}))
	ext := registerTestExtension(WithRegistry(reg))

	_, _, err := buildSite(t, ext, "html", "backend: Nope", map[string]string{"index.md": "# x\n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot find images backend with name `Nope`")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestExtensionRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(BackendInfo{Name: "Fake", Package: "p", Factory: fakeFactory}))
	ext := registerTestExtension(WithRegistry(reg))

	s, _, err := buildSite(t, ext, "html", "backend: Fake", map[string]string{
		"index.md": ":::thumbnail a.png\n:::\n",
		"a.png":    "png",
	})
	require.NoError(t, err)
	assert.Contains(t, s.read(t, "index.html"), `<fake src="a.png"`)
	assert.DirExists(t, filepath.Join(s.src, "_images"), "cache directory is created")
}

func TestExtensionFactoryFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	ext := registerTestExtension(WithBackendFactory(func(*host.App, Config) (Backend, error) {
		return nil, boom
	}))

	_, _, err := buildSite(t, ext, "html", "", map[string]string{"index.md": "# x\n"})
	require.ErrorIs(t, err, boom)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBackend))
	assert.True(t, ferrors.GetSeverity(err) == ferrors.SeverityFatal)
}

func TestNodeHandlersBindEveryFormat(t *testing.T) {
	handlers := nodeHandlers(&fakeBackend{})
	for _, f := range host.Formats() {
		h, ok := handlers[f]
		require.True(t, ok, f)
		assert.NotNil(t, h.Visit)
		assert.NotNil(t, h.Depart)
	}
}
