// Zaparoo Romfile
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Romfile.
//
// Zaparoo Romfile is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Romfile is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Romfile.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/romfile/pkg/cli"
	"github.com/ZaparooProject/romfile/pkg/config"
	"github.com/ZaparooProject/romfile/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	var logWriters []io.Writer
	if *flags.Debug {
		logWriters = append(logWriters, helpers.ConsoleWriter(os.Stderr))
	}

	cfg, err := cli.Setup(afero.NewOsFs(), config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Debug().Strs("args", os.Args[1:]).Msg("starting romfile")
	err = flags.Run(ctx, cfg, os.Stdout)
	if cli.IsNoAction(err) {
		flag.Usage()
		return nil
	}
	return err
}
