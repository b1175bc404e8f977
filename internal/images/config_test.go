package images

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/version"
)

func sectionNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc.Content[0]
}

func TestDecodeConfigDefaults(t *testing.T) {
	cfg, err := decodeConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "LightBox2", cfg.Backend)
	assert.Equal(t, "100%", cfg.DefaultImageWidth)
	assert.Equal(t, "auto", cfg.DefaultImageHeight)
	assert.True(t, cfg.Download)
	assert.False(t, cfg.ShowCaption)
	assert.Equal(t, "_images", cfg.CachePath)
	assert.Equal(t, 30*time.Second, cfg.Requests.Timeout)
	assert.Equal(t, version.UserAgent(), cfg.Requests.UserAgent)
}

func TestDecodeConfigMergesOverDefaults(t *testing.T) {
	cfg, err := decodeConfig(sectionNode(t, `
default_group: gallery
show_caption: true
download: false
cache_path: ./remote/
requests:
  timeout: 5s
  headers:
    Authorization: Bearer x
backend_options:
  cdn_base: https://cdn.example.com/lb
`))
	require.NoError(t, err)
	assert.Equal(t, "LightBox2", cfg.Backend)
	assert.Equal(t, "gallery", cfg.DefaultGroup)
	assert.True(t, cfg.ShowCaption)
	assert.False(t, cfg.Download)
	assert.Equal(t, "remote", cfg.CachePath)
	assert.Equal(t, 5*time.Second, cfg.Requests.Timeout)
	assert.Equal(t, "Bearer x", cfg.Requests.Headers["Authorization"])
	assert.Equal(t, version.UserAgent(), cfg.Requests.UserAgent)
	assert.Equal(t, "https://cdn.example.com/lb", cfg.BackendOptions["cdn_base"])
}

func TestDecodeConfigRejectsEscapingCachePath(t *testing.T) {
	for _, p := range []string{"/tmp/cache", "../cache", "a/../../b"} {
		_, err := decodeConfig(sectionNode(t, "cache_path: "+p+"\n"))
		require.Error(t, err, p)
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig), p)
	}
}

func TestDecodeConfigInvalidType(t *testing.T) {
	_, err := decodeConfig(sectionNode(t, "download: [1, 2]\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
