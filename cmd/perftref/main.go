package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/pflag"

	"github.com/ChizhovVadim/perftdebug/internal/board"
	"github.com/ChizhovVadim/perftdebug/internal/bootstrap"
	"github.com/ChizhovVadim/perftdebug/pkg/uci"
)

/*
Perftref Copyright (C) 2017-2023 Vadim Chizhov
This program is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, either version 3 of the License, or (at your option) any later version.
This program is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.
You should have received a copy of the GNU General Public License along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

const (
	name   = "perftref"
	author = "Vadim Chizhov"
)

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
	flgProfile  string
	flgLogLevel string
)

func main() {
	pflag.StringVar(&flgProfile, "cpuprofile", "", "write a cpu profile to this directory")
	pflag.StringVar(&flgLogLevel, "log-level", "warn", "debug, info, warn or error")
	pflag.Parse()

	var logger, err = bootstrap.NewLogger(flgLogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Infow(name,
		"VersionName", versionName,
		"BuildDate", buildDate,
		"GitRevision", gitRevision,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS)

	if flgProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(flgProfile), profile.Quiet).Stop()
	}

	var ctx, stop = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var protocol = uci.New(name, author, versionName, board.Engine{}, os.Stdout, logger)
	if err := protocol.Run(ctx, os.Stdin); err != nil {
		logger.Errorw("protocol stopped", "error", err)
	}
}
