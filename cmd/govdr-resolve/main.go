// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	govdr "github.com/blinklabs-io/govdr"
	"github.com/blinklabs-io/govdr/cache"
)

type resolveFlags struct {
	flagset  *flag.FlagSet
	config   string
	cacheDir string
	noCache  bool
	timeout  int
	minSeqNo uint64
	debug    bool
}

// resolverConfig is the TOML config file layout: a list of [[ledger]]
// tables, one per ledger network
type resolverConfig struct {
	Ledgers []govdr.LedgerConfig `toml:"ledger"`
}

func newResolveFlags() *resolveFlags {
	f := &resolveFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.config,
		"config",
		"",
		"path to TOML ledger config file",
	)
	f.flagset.StringVar(
		&f.cacheDir,
		"cache-dir",
		"",
		"directory for the persistent resolution cache (defaults to in-memory)",
	)
	f.flagset.BoolVar(
		&f.noCache,
		"no-cache",
		false,
		"bypass the resolution cache",
	)
	f.flagset.IntVar(
		&f.timeout,
		"timeout",
		30,
		"overall lookup timeout in seconds",
	)
	f.flagset.Uint64Var(
		&f.minSeqNo,
		"min-seq-no",
		0,
		"only accept records at or above this sequence number",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

func main() {
	f := newResolveFlags()
	if err := f.flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	if f.config == "" {
		fmt.Printf("no ledger config specified (-config)\n")
		os.Exit(1)
	}
	if f.flagset.NArg() == 0 {
		fmt.Printf("no DID or identifier specified\n")
		os.Exit(1)
	}
	var cfg resolverConfig
	if _, err := toml.DecodeFile(f.config, &cfg); err != nil {
		fmt.Printf("failed to load ledger config: %s\n", err)
		os.Exit(1)
	}
	logLevel := slog.LevelInfo
	if f.debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
	)
	var resolutionCache cache.ResolutionCache
	if f.cacheDir != "" {
		levelDBCache, err := cache.NewLevelDBCache(f.cacheDir)
		if err != nil {
			fmt.Printf("failed to open resolution cache: %s\n", err)
			os.Exit(1)
		}
		defer levelDBCache.Close()
		resolutionCache = levelDBCache
	} else {
		resolutionCache = cache.NewMemoryCache()
	}
	manager := govdr.NewMultiLedgerManager(
		govdr.WithLogger(logger),
		govdr.WithCache(resolutionCache),
	)
	if err := manager.UpdateLedgerConfig(cfg.Ledgers); err != nil {
		fmt.Printf("failed to configure ledgers: %s\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(f.timeout)*time.Second,
	)
	defer cancel()
	exitCode := 0
	for _, identifier := range f.flagset.Args() {
		var ledgerID string
		var err error
		if f.minSeqNo > 0 {
			ledgerID, _, err = manager.GetLedgerForIdentifier(
				ctx,
				identifier,
				f.minSeqNo,
			)
		} else {
			ledgerID, _, err = manager.LookupDID(ctx, identifier, !f.noCache)
		}
		if err != nil {
			fmt.Printf("%s: ERROR: %s\n", identifier, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s: %s\n", identifier, ledgerID)
	}
	if writeID, _, err := manager.GetWriteLedger(); err == nil {
		fmt.Printf("\nWrite ledger: %s\n", writeID)
	}
	os.Exit(exitCode)
}
