// Command metawrite embeds cover art, lyrics, title and artist into a music
// file and reports the outcome as a single JSON line on stdout.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Flag and argument errors never reached a handler
		a.fail(err.Error())
	}
	if a.failed {
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "metawrite [json]",
		Short: "Write cover, lyrics, title and artist into a music file",
		Long: `Write cover, lyrics, title and artist into an MP3, FLAC, MP4/M4A or OGG/OPUS file.

The request is a JSON object given as the only argument, or read from stdin:

  {"filepath": "/music/song.flac", "cover": "https://...", "lyrics": "...", "title": "...", "artist": "..."}

Exactly one JSON result is printed to stdout.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runWrite,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (TOML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")

	root.AddCommand(a.readCmd())
	return root
}
