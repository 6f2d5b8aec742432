// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lucena is a UCI chess engine.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/op/go-logging"
	"github.com/pkg/profile"

	"github.com/lucena-chess/lucena/internal/config"
)

var (
	buildVersion = "(devel)"

	configPath = flag.String("config", "", "path to a TOML configuration file")
	cpuprofile = flag.Bool("cpuprofile", false, "write a cpu profile to the current directory")
	logLevel   = flag.String("loglevel", "", "log level, overrides the configuration file")

	log = logging.MustGetLogger("lucena")
)

func setupLogging(level string) error {
	backend := logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0),
		logging.MustStringFormatter("%{time:15:04:05.000} %{level:.4s} %{message}"))
	leveled := logging.AddModuleLevel(backend)

	lvl, err := logging.LogLevel(level)
	if err != nil {
		return err
	}
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}

func main() {
	fmt.Printf("lucena %v, built with %v, running on %v\n",
		buildVersion, runtime.Version(), runtime.GOARCH)

	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *cpuprofile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	bio := bufio.NewReader(os.Stdin)
	uci := NewUCI(cfg)
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			log.Error(err.Error())
			break
		}
		if err := uci.Execute(string(line)); err != nil {
			if err == errQuit {
				break
			}
			log.Warningf("%v for line %q", err, string(line))
		}
	}
}
