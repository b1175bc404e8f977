package images

import (
	"crypto/sha1" // #nosec G505 -- content addressing of URLs, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docimages/internal/host"
)

// IsRemote reports whether uri refers to a remote image. Local candidates are
// checked against srcDir and docDir before the URI is treated as an address.
func IsRemote(uri, srcDir, docDir string) (bool, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(uri, "/"):
		return false, nil
	case strings.HasPrefix(uri, "file://"):
		return false, nil
	case uri != "" && isFile(filepath.Join(srcDir, filepath.FromSlash(uri))):
		return false, nil
	case uri != "" && isFile(filepath.Join(docDir, filepath.FromSlash(uri))):
		return false, nil
	case strings.Contains(uri, "://"):
		return true, nil
	}
	return false, fmt.Errorf("Image URI `%s` have to be local relative or absolute path to image, or remote address.", uri) //nolint:staticcheck // user-facing message
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// CachedPath returns the source-relative path a remote image is cached at.
func CachedPath(cachePath, uri string) string {
	sum := sha1.Sum([]byte(uri)) // #nosec G401
	return path.Join(filepath.ToSlash(cachePath), hex.EncodeToString(sum[:]))
}

const remoteImagesKey = "images.remote"

// RemoteImages maps remote addresses to their cached, source-relative paths.
type RemoteImages map[string]string

// URIs returns the remote addresses in sorted order.
func (r RemoteImages) URIs() []string {
	uris := make([]string, 0, len(r))
	for u := range r {
		uris = append(uris, u)
	}
	sort.Strings(uris)
	return uris
}

// RemoteImagesOf returns the remote image table of env, creating it if needed.
func RemoteImagesOf(env *host.Env) RemoteImages {
	if v, ok := env.Get(remoteImagesKey); ok {
		if r, ok := v.(RemoteImages); ok {
			return r
		}
	}
	r := RemoteImages{}
	env.Set(remoteImagesKey, r)
	return r
}
