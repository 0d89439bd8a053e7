// Package cover resolves a cover source (URL or local path) into image bytes
// and a MIME type. Resolution is best effort: failures are logged and the
// cover is treated as absent.
package cover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"

	"github.com/llehouerou/metawrite/internal/config"
	"github.com/llehouerou/metawrite/internal/errmsg"
	"github.com/llehouerou/metawrite/internal/tags"
)

// maxCoverSize bounds how much of a remote response is read.
const maxCoverSize = 32 << 20

// Resolver turns cover sources into pictures.
type Resolver struct {
	httpClient   *http.Client
	log          hclog.Logger
	userAgent    string
	maxDimension int
}

// New creates a resolver from the cover configuration.
func New(cfg config.CoverConfig, log hclog.Logger) *Resolver {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultCoverTimeout
	}
	return &Resolver{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:          log.Named("cover"),
		userAgent:    cfg.UserAgent,
		maxDimension: cfg.MaxDimension,
	}
}

// Resolve returns the picture for source, or nil when source is empty,
// missing or cannot be fetched.
func (r *Resolver) Resolve(ctx context.Context, source string) *tags.Picture {
	if source == "" {
		return nil
	}

	var (
		pic *tags.Picture
		err error
	)
	if IsURL(source) {
		pic, err = r.fetch(ctx, source)
		if err != nil {
			r.log.Warn(errmsg.Format(errmsg.OpCoverDownload, err), "url", source)
			return nil
		}
	} else {
		pic, err = readFile(source)
		if err != nil {
			r.log.Warn(errmsg.Format(errmsg.OpCoverRead, err), "path", source)
			return nil
		}
		if pic == nil {
			r.log.Debug("cover file does not exist", "path", source)
			return nil
		}
	}

	pic = r.downscale(pic)
	r.log.Debug("cover resolved", "source", source, "mime", pic.MIMEType,
		"size", humanize.IBytes(uint64(len(pic.Data))))
	return pic
}

// IsURL reports whether source is fetched over HTTP rather than read from disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (*tags.Picture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxCoverSize {
		return nil, fmt.Errorf("cover larger than %s", humanize.IBytes(maxCoverSize))
	}

	return &tags.Picture{
		Data:     data,
		MIMEType: MIMEFromContentType(resp.Header.Get("Content-Type")),
	}, nil
}

// readFile reads a local cover. A missing file yields (nil, nil).
func readFile(path string) (*tags.Picture, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &tags.Picture{Data: data, MIMEType: MIMEFromExt(path)}, nil
}

// MIMEFromContentType maps a response Content-Type to a cover MIME type.
// A missing header is treated as JPEG.
func MIMEFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return tags.MIMEPNG
	case strings.Contains(ct, "gif"):
		return tags.MIMEGIF
	default:
		return tags.MIMEJPEG
	}
}

// MIMEFromExt maps a local file extension to a cover MIME type.
// The file content is not inspected.
func MIMEFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return tags.MIMEPNG
	case ".gif":
		return tags.MIMEGIF
	default:
		return tags.MIMEJPEG
	}
}
