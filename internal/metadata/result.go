package metadata

import "github.com/llehouerou/metawrite/internal/tags"

// Result is the single JSON object reported for an invocation.
// Written flags are only present for fields that were written.
type Result struct {
	Success       bool   `json:"success"`
	File          string `json:"file,omitempty"`
	Error         string `json:"error,omitempty"`
	CoverWritten  bool   `json:"cover_written,omitempty"`
	LyricsWritten bool   `json:"lyrics_written,omitempty"`
	TitleWritten  bool   `json:"title_written,omitempty"`
	ArtistWritten bool   `json:"artist_written,omitempty"`
}

// Failed returns a failure result carrying msg.
func Failed(msg string) Result {
	return Result{Error: msg}
}

// Succeeded returns a success result for path with the written flags set.
func Succeeded(path string, w tags.Written) Result {
	return Result{
		Success:       true,
		File:          path,
		CoverWritten:  w.Cover,
		LyricsWritten: w.Lyrics,
		TitleWritten:  w.Title,
		ArtistWritten: w.Artist,
	}
}
