package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/metawrite/internal/config"
	"github.com/llehouerou/metawrite/internal/cover"
	"github.com/llehouerou/metawrite/internal/errmsg"
	"github.com/llehouerou/metawrite/internal/metadata"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	failed bool
}

func (a *app) runWrite(cmd *cobra.Command, args []string) error {
	raw, src, err := a.readRequest(args)
	if err != nil {
		a.fail(err.Error())
		return nil
	}

	req, err := metadata.ParseRequest(raw, src)
	if err != nil {
		a.fail(err.Error())
		return nil
	}

	cfg, log, err := a.setup()
	if err != nil {
		a.fail(err.Error())
		return nil
	}

	svc := metadata.NewService(cover.New(cfg.Cover, log), log)
	res := svc.Write(cmd.Context(), *req)
	a.failed = !res.Success
	a.emit(res)
	return nil
}

// readRequest takes the request from the first argument, or from stdin when
// there is none.
func (a *app) readRequest(args []string) ([]byte, metadata.Source, error) {
	if len(args) > 0 {
		return []byte(args[0]), metadata.SourceArg, nil
	}
	raw, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, metadata.SourceStdin, metadata.ErrInvalidJSONInput
	}
	return raw, metadata.SourceStdin, nil
}

// setup loads the configuration and builds the stderr logger.
func (a *app) setup() (*config.Config, hclog.Logger, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return nil, nil, fmt.Errorf("invalid log level %q", level)
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:       "metawrite",
		Level:      lvl,
		Output:     a.stderr,
		JSONFormat: cfg.Log.JSON,
	})
	return cfg, log, nil
}

func (a *app) fail(msg string) {
	a.failed = true
	a.emit(metadata.Failed(msg))
}

// emit prints v as one JSON line. Non-ASCII text is printed as-is.
func (a *app) emit(v any) {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(a.stderr, "metawrite: encode result: %v\n", err)
		a.failed = true
	}
}
