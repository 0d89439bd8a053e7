// Package metadata orchestrates a single metadata write: it checks the
// target file, resolves the cover and dispatches to the tag writers.
package metadata

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/llehouerou/metawrite/internal/errmsg"
	"github.com/llehouerou/metawrite/internal/tags"
)

// CoverResolver turns a cover source into a picture, or nil when the cover
// is absent or unavailable.
type CoverResolver interface {
	Resolve(ctx context.Context, source string) *tags.Picture
}

// Service writes metadata requests.
type Service struct {
	covers CoverResolver
	log    hclog.Logger
}

// NewService creates a service using covers to resolve cover sources.
func NewService(covers CoverResolver, log hclog.Logger) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{covers: covers, log: log}
}

// Write applies req to its file. It never panics and never returns an
// error: every failure is reported in the Result.
func (s *Service) Write(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tag writer panicked", "file", req.Filepath, "panic", r)
			res = Failed(fmt.Sprint(r))
		}
	}()

	if _, err := os.Stat(req.Filepath); err != nil {
		// Any stat failure, permission errors included, reads as a missing file
		s.log.Debug("target file not accessible", "file", req.Filepath, "error", err)
		return Failed((&tags.FileNotFoundError{Path: req.Filepath}).Error())
	}

	fields := &tags.Fields{
		Lyrics: req.Lyrics,
		Title:  req.Title,
		Artist: req.Artist,
	}
	// Unsupported files fail at dispatch; skip the cover fetch
	if req.Cover != "" && s.covers != nil && tags.IsSupported(req.Filepath) {
		fields.Cover = s.covers.Resolve(ctx, req.Cover)
	}

	written, err := tags.Write(req.Filepath, fields)
	if err != nil {
		s.log.Debug(errmsg.FormatWith(errmsg.OpWriteTags, req.Filepath, err))
		return Failed(err.Error())
	}

	if !written.Any() {
		s.log.Debug("no fields to write", "file", req.Filepath)
		return Succeeded(req.Filepath, written)
	}
	s.log.Debug("metadata written", "file", req.Filepath,
		"cover", written.Cover, "lyrics", written.Lyrics,
		"title", written.Title, "artist", written.Artist)
	return Succeeded(req.Filepath, written)
}
