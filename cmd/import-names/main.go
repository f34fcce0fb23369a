// Package main loads a dictionary file into the configured name store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/rpjamma/internal/config"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/names"
	"github.com/cory-johannsen/rpjamma/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dictPath := flag.String("dict", "", "dictionary file, one name per line")
	backend := flag.String("backend", "", "override names.backend: sqlite or postgres")
	flag.Parse()

	if *dictPath == "" {
		fmt.Fprintln(os.Stderr, "usage: import-names -dict <file> [-config <file>] [-backend sqlite|postgres]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("loading config: %v", err)
	}
	if *backend != "" {
		cfg.Names.Backend = *backend
		if err := cfg.Validate(); err != nil {
			fail("invalid config: %v", err)
		}
	}

	f, err := os.Open(*dictPath)
	if err != nil {
		fail("opening dictionary: %v", err)
	}
	defer f.Close()
	list, err := names.ReadDictionary(f)
	if err != nil {
		fail("reading dictionary: %v", err)
	}

	start := time.Now()
	ctx := context.Background()
	backendNames, err := storage.OpenNames(ctx, cfg, dice.NewCryptoSource())
	if err != nil {
		fail("%v", err)
	}
	defer backendNames.Close()

	store, err := backendNames.Store()
	if err != nil {
		fail("%v", err)
	}
	added, err := store.Add(ctx, list...)
	if err != nil {
		fail("adding names: %v", err)
	}
	total, err := store.Count(ctx)
	if err != nil {
		fail("counting names: %v", err)
	}
	fmt.Printf("imported %d of %d names into %s (%d total) in %s\n",
		added, len(list), backendNames.Backend, total, time.Since(start).Round(time.Millisecond))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
