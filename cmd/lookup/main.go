// Command lookup loads the configured dictionary source synchronously and
// prints the search response for each argument as one JSON line.
//
// Usage:
//
//	lookup 汝 城门
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/rucheng-dialect/internal/app"
	"github.com/heartmarshall/rucheng-dialect/internal/config"
	"github.com/heartmarshall/rucheng-dialect/internal/dictionary"
	"github.com/heartmarshall/rucheng-dialect/internal/lifecycle"
	"github.com/heartmarshall/rucheng-dialect/internal/search"
)

func main() {
	indent := flag.Bool("indent", false, "pretty-print JSON output")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: lookup [--indent] <characters>...")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	src, err := app.OpenSource(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open dictionary source: %v", err)
	}
	defer src.Close()

	store := dictionary.NewStore()
	lc := lifecycle.New(logger, store, src.Fetcher, nil, nil)
	if err := lc.Load(ctx); err != nil {
		log.Fatalf("load dictionary: %v", err)
	}

	engine := search.NewEngine(logger, store, lc, nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if *indent {
		enc.SetIndent("", "  ")
	}
	for _, arg := range flag.Args() {
		if err := enc.Encode(engine.APISearch(ctx, arg)); err != nil {
			log.Fatalf("encode: %v", err)
		}
	}
}
