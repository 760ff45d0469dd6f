package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/ChizhovVadim/perftdebug/internal/board"
	"github.com/ChizhovVadim/perftdebug/internal/bootstrap"
	"github.com/ChizhovVadim/perftdebug/internal/cache"
	"github.com/ChizhovVadim/perftdebug/internal/perft"
	"github.com/ChizhovVadim/perftdebug/internal/session"
)

/*
Perftdebug Copyright (C) 2017-2023 Vadim Chizhov
This program is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, either version 3 of the License, or (at your option) any later version.
This program is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.
You should have received a copy of the GNU General Public License along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

const name = "perftdebug"

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cfg, err = bootstrap.Setup(name, args)
	if err != nil {
		if errors.Is(err, bootstrap.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	defer logger.Sync()

	var runID = uuid.NewString()
	logger = logger.With("run", runID)
	logger.Debugw(name,
		"VersionName", versionName,
		"BuildDate", buildDate,
		"GitRevision", gitRevision,
		"RuntimeVersion", runtime.Version())
	logger.Infow("bisection started",
		"engine", cfg.Engine,
		"reference", cfg.Reference,
		"depth", cfg.Depth,
		"fen", cfg.Fen)

	if err := board.Validate(cfg.Fen); err != nil {
		logger.Errorw("bad starting position", "error", err)
		return exitUsage
	}

	var ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(ctx, cancel, logger)

	var runner = session.New(cfg.Timeout, logger)
	var bisector = &perft.Bisector{
		Engine:     cfg.Engine,
		Reference:  cfg.Reference,
		Runner:     runner,
		Concurrent: cfg.Concurrent,
		Logger:     logger,
	}

	if cfg.RedisUrl != "" {
		var c, err = cache.NewRedis(ctx, cfg.RedisUrl, cfg.CacheTTL)
		if err != nil {
			logger.Errorw("cache unavailable", "error", err)
			return exitFailure
		}
		defer c.Close()
		bisector.ReferenceRunner = &cache.Runner{Next: runner, Cache: c, Logger: logger}
	}

	if cfg.Progress {
		var bar = progressbar.NewOptions(cfg.Depth,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("bisecting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
		bisector.Progress = func(step perft.Step) {
			bar.Describe(fmt.Sprintf("depth %v %v", step.Depth, step.Verdict.Kind()))
			bar.Add(1)
		}
		defer bar.Finish()
	}

	report, err := bisector.Run(ctx, cfg.Fen, cfg.Depth)
	if ctx.Err() != nil {
		logger.Warnw("bisection interrupted")
		return exitInterrupted
	}
	if err != nil {
		logger.Errorw("bisection failed", "error", err)
		return exitFailure
	}
	report.RunID = runID

	logger.Infow("bisection finished",
		"outcome", report.Outcome.String(),
		"steps", len(report.Steps),
		"variation", report.Path.String())

	if cfg.Json {
		err = json.NewEncoder(stdout).Encode(report)
	} else {
		err = report.Write(stdout)
	}
	if err != nil {
		logger.Errorw("write report", "error", err)
		return exitFailure
	}
	return exitOK
}

func handleShutdown(ctx context.Context, cancel context.CancelFunc, logger *zap.SugaredLogger) {
	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	select {
	case <-sigs:
		logger.Infow("received shutdown signal")
		cancel()
	case <-ctx.Done():
	}
}
