package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/metawrite/internal/errmsg"
	"github.com/llehouerou/metawrite/internal/lyrics"
	"github.com/llehouerou/metawrite/internal/tags"
)

type readResult struct {
	Success   bool   `json:"success"`
	File      string `json:"file,omitempty"`
	Error     string `json:"error,omitempty"`
	Title     string `json:"title,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Lyrics    string `json:"lyrics,omitempty"`
	CoverMIME string `json:"cover_mime,omitempty"`
	CoverSize int    `json:"cover_size,omitempty"`

	LyricsLines  int    `json:"lyrics_lines,omitempty"`
	LyricsSynced bool   `json:"lyrics_synced,omitempty"`
	LyricsLength string `json:"lyrics_length,omitempty"`
}

func (a *app) readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file>",
		Short: "Print the cover, lyrics, title and artist stored in a music file",
		Long: `Print the managed fields stored in a music file as one JSON line.

Lyrics are summarized with their line count and, for LRC lyrics, the last timestamp.
The cover is reported by MIME type and size in bytes.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runRead,
	}
}

func (a *app) runRead(_ *cobra.Command, args []string) error {
	path := args[0]

	_, log, err := a.setup()
	if err != nil {
		a.fail(err.Error())
		return nil
	}

	t, err := tags.Read(path)
	if err != nil {
		log.Debug(errmsg.FormatWith(errmsg.OpReadTags, path, err))
		a.failed = true
		a.emit(readResult{Error: err.Error()})
		return nil
	}

	res := readResult{
		Success: true,
		File:    path,
		Title:   t.Title,
		Artist:  t.Artist,
		Lyrics:  t.Lyrics,
	}
	if t.Lyrics != "" {
		info := lyrics.Inspect(t.Lyrics)
		res.LyricsLines = info.Lines
		res.LyricsSynced = info.Synced
		if info.Synced {
			res.LyricsLength = info.Last.String()
		}
	}
	if t.Cover != nil {
		res.CoverMIME = t.Cover.MIMEType
		res.CoverSize = len(t.Cover.Data)
		log.Debug("embedded cover", "mime", t.Cover.MIMEType, "size", humanize.IBytes(uint64(len(t.Cover.Data))))
	}
	a.emit(res)
	return nil
}
