package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/logfields"
	"git.home.luguber.info/inful/docimages/internal/metrics"
)

const maxImageBytes = 64 * 1024 * 1024

// sniffLen is enough header bytes for filetype to recognize every image format it knows.
const sniffLen = 262

// NewHTTPClient creates the client used for downloads.
func NewHTTPClient(cfg RequestsConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// Downloader fetches remote images into the cache directory.
type Downloader struct {
	Client   *http.Client
	Requests RequestsConfig
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Download fetches every entry of remote that is not cached yet. srcDir is
// the directory cached paths are relative to. Failed downloads are logged
// and skipped; only cancellation of ctx stops the loop.
func (d *Downloader) Download(ctx context.Context, srcDir string, remote RemoteImages) error {
	uris := remote.URIs()
	if len(uris) > 0 {
		d.Logger.Info("Downloading remote images", logfields.Count(len(uris)))
	}
	for _, src := range uris {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Join(srcDir, filepath.FromSlash(remote[src]))
		if isFile(dst) {
			d.Logger.Info("Remote image already in cache", logfields.RemoteURI(src), logfields.Dest(dst))
			d.Recorder.IncDownloadResult(metrics.DownloadCached)
			continue
		}

		d.Logger.Info("Downloading remote image", logfields.RemoteURI(src), logfields.Dest(dst))
		start := time.Now()
		n, err := d.fetch(ctx, src, dst)
		d.Recorder.ObserveDownloadDuration(time.Since(start))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			attrs := []any{logfields.RemoteURI(src), logfields.Error(err)}
			if ce, ok := errors.AsClassified(err); ok {
				if code, ok := ce.Context()["status"].(int); ok {
					attrs = append(attrs, logfields.Status(code))
				}
			}
			d.Logger.Info("Cannot download remote image", attrs...)
			d.Recorder.IncDownloadResult(metrics.DownloadFailed)
			continue
		}
		d.Recorder.IncDownloadResult(metrics.DownloadFetched)
		d.Logger.Debug("Downloaded remote image", logfields.RemoteURI(src), logfields.Bytes(n),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	}
	return nil
}

// fetch issues one GET for src and atomically writes the body to dst.
func (d *Downloader) fetch(ctx context.Context, src, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return 0, errors.NetworkError("invalid remote image address").WithCause(err).
			WithContext("uri", src).Build()
	}
	for k, v := range d.Requests.Headers {
		req.Header.Set(k, v)
	}
	// a User-Agent given in headers wins over requests.user_agent
	if req.Header.Get("User-Agent") == "" && d.Requests.UserAgent != "" {
		req.Header.Set("User-Agent", d.Requests.UserAgent)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return 0, errors.NetworkError("request failed").WithCause(err).WithContext("uri", src).Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, errors.NetworkError(fmt.Sprintf("HTTP %d", resp.StatusCode)).
			WithContext("uri", src).WithContext("status", resp.StatusCode).Build()
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to create cache directory").Build()
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to create temporary file").Build()
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	sniff := &headCapture{limit: sniffLen}
	n, err := io.Copy(io.MultiWriter(tmp, sniff), io.LimitReader(resp.Body, maxImageBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, errors.NetworkError("failed to read response").WithCause(err).WithContext("uri", src).Build()
	}
	if n > maxImageBytes {
		return 0, errors.NetworkError("response too large").WithContext("uri", src).Build()
	}
	if !filetype.IsImage(sniff.buf) {
		d.Logger.Warn("Downloaded file does not look like an image",
			logfields.RemoteURI(src), slog.String("content_type", resp.Header.Get("Content-Type")))
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to move download into cache").
			WithContext("path", dst).Build()
	}
	return n, nil
}

// headCapture keeps the first limit bytes written to it.
type headCapture struct {
	buf   []byte
	limit int
}

func (h *headCapture) Write(p []byte) (int, error) {
	if room := h.limit - len(h.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		h.buf = append(h.buf, p[:room]...)
	}
	return len(p), nil
}
