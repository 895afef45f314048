// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the ngramserve n-gram frequency tool.

ngramserve reads a tokenized training corpus, one sentence per line, and
counts every word sequence of length 1..N (N = 5 by default) in a hash keyed
trie. It then answers, for every test n-gram, how often the n-gram and each of
its suffixes occurred in the corpus.

# Usage

	ngramserve [flags] <train_file> <test_file> [debug-level]

For a test line such as

	mortgages had lured borrowers and

the output is

	frequency( mortgages had lured borrowers and ) = 0
	frequency( had lured borrowers and ) = 2
	frequency( lured borrowers and ) = 4
	frequency( borrowers and ) = 56
	frequency( and ) = 6453
	CPU Time needed: 0.000004211 sec.

Instead of a test file the index can be queried interactively (-c) or served
as a msgpack IPC stream over stdin/stdout (-s):

	ngramserve -c corpus.txt
	ngramserve -s corpus.txt

# Configuration

Defaults come from ngramserve.toml in the user config dir, created on first
run. Flags override the file:

	[trie]
	max_order = 5
	delimiter = " "
	cache = true
	backend = "hashmap"

The "patricia" backend stores levels in patricia trees, the "sketch" backend
trades exact counts for bounded memory.

# Flags

	-config string   config file to use instead of the default one
	-d               debug logging
	-level string    log level, also accepted as a trailing argument
	-order int       maximum n-gram order
	-delim string    token delimiter, one character
	-cache           reuse key chains between consecutive queries, -cache=false disables it
	-backend string  hashmap, patricia or sketch
	-c               interactive shell
	-s               msgpack server
	-progress        show a progress bar while reading the corpus
	-version         show version
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bastiangx/ngramserve/internal/cli"
	"github.com/bastiangx/ngramserve/internal/logger"
	"github.com/bastiangx/ngramserve/internal/utils"
	"github.com/bastiangx/ngramserve/pkg/builder"
	"github.com/bastiangx/ngramserve/pkg/config"
	"github.com/bastiangx/ngramserve/pkg/query"
	"github.com/bastiangx/ngramserve/pkg/server"
	"github.com/bastiangx/ngramserve/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"
)

const (
	Version = "0.3.0-beta"
	AppName = "ngramserve"
	gh      = "https://github.com/bastiangx/ngramserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

type options struct {
	configPath string
	debug      bool
	level      string
	order      int
	delim      string
	cache      bool
	backend    string
	cliMode    bool
	serverMode bool
	progress   bool
}

// main only manages the flow: train, then query through one of the modes.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()
	var opts options

	showVersion := flag.Bool("version", false, "Show current version")
	flag.StringVar(&opts.configPath, "config", "", "Config file to use instead of the default one")
	flag.BoolVar(&opts.debug, "d", false, "Toggle debug mode")
	flag.StringVar(&opts.level, "level", "", "Log level: debug, info, warn or error")
	flag.IntVar(&opts.order, "order", defaults.Trie.MaxOrder, "Maximum n-gram order (1..8)")
	flag.StringVar(&opts.delim, "delim", defaults.Trie.Delimiter, "Token delimiter, a single character")
	flag.BoolVar(&opts.cache, "cache", defaults.Trie.Cache, "Reuse key chains between consecutive queries")
	flag.StringVar(&opts.backend, "backend", defaults.Trie.Backend, "Trie backend: hashmap, patricia or sketch")
	flag.BoolVar(&opts.cliMode, "c", false, "Run the interactive query shell instead of reading a test file")
	flag.BoolVar(&opts.serverMode, "s", false, "Serve msgpack queries over stdin/stdout instead of reading a test file")
	flag.BoolVar(&opts.progress, "progress", false, "Show a progress bar while reading the corpus")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if opts.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	log.SetOutput(os.Stderr)
	if opts.level != "" {
		applyDebugLevel(opts.level)
	}

	args := flag.Args()
	needed := 2
	if opts.cliMode || opts.serverMode {
		needed = 1
	}
	if len(args) < needed {
		log.Errorf("Incorrect number of arguments, expected >= %d, got %d", needed, len(args))
		flag.Usage()
		os.Exit(1)
	}
	if len(args) > needed {
		applyDebugLevel(args[needed])
	}

	cfg, configPath, paths := loadConfig(opts.configPath)
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		flag.Usage()
		os.Exit(1)
	}
	log.Debug("Config", "path", configPath, "order", cfg.Trie.MaxOrder, "backend", cfg.Trie.Backend, "cache", cfg.Trie.Cache)

	files, err := utils.OpenInputs(args[:needed]...)
	if err != nil {
		log.Error(err)
		flag.Usage()
		os.Exit(1)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	index, err := train(cfg, files[0], opts.progress)
	if err != nil {
		log.Fatalf("Failed to build trie: %v", err)
	}

	engine := query.NewEngine(index,
		query.WithCache(cfg.Trie.Cache),
		query.WithDelimiter(cfg.DelimiterRune()))

	switch {
	case opts.serverMode:
		log.Debug("spawning IPC")
		srv := server.NewServer(engine, index, os.Stdin, os.Stdout)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case opts.cliMode:
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(engine, index, cfg.CLI.Prompt, historyPath(cfg, paths), cfg.Query.ReportTime)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		log.Info("Reading and executing the test queries ...")
		out := bufio.NewWriter(os.Stdout)
		stats, err := engine.Run(files[1], out, query.RunOptions{ReportTime: cfg.Query.ReportTime})
		if flushErr := out.Flush(); err == nil {
			err = flushErr
		}
		if err != nil {
			log.Fatalf("Query run failed: %v", err)
		}
		log.Infof("Total query execution time is %.6f seconds.", stats.QueryTime.Seconds())
		if stats.Failed > 0 {
			log.Warnf("%d of %d query lines failed", stats.Failed, stats.Failed+stats.Queries)
		}
	}
	log.Info("Done")
}

// train builds the trie from the corpus and reports time and memory use.
func train(cfg *config.Config, corpus *utils.InputFile, progress bool) (trie.ITrie, error) {
	backend, err := trie.ParseBackend(cfg.Trie.Backend)
	if err != nil {
		return nil, err
	}

	memBefore := utils.ReadMemUsage()
	index, err := trie.New(trie.Options{
		Backend:  backend,
		Order:    cfg.Trie.MaxOrder,
		Capacity: cfg.Trie.CapacityHint,
		Sketch: trie.SketchOptions{
			Epsilon:       cfg.Sketch.Epsilon,
			Delta:         cfg.Sketch.Delta,
			BloomCapacity: uint(cfg.Sketch.BloomCapacity),
			BloomFPRate:   cfg.Sketch.BloomFPRate,
		},
	})
	if err != nil {
		return nil, err
	}

	var builderOpts []builder.Option
	var bar *pb.ProgressBar
	if progress && corpus.Size > 0 {
		bar = pb.New64(corpus.Size)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(os.Stderr)
		bar.Start()
		builderOpts = append(builderOpts, builder.WithProgress(func(n int) {
			bar.Add(n)
		}))
	}

	buildLog := logger.New("builder")
	builderOpts = append(builderOpts, builder.WithLogger(buildLog))
	buildLog.Info("Start reading the text corpus and filling in the trie ...", "file", corpus.Path, "backend", backend)
	stats, err := builder.New(index, cfg.DelimiterRune(), builderOpts...).Build(corpus)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	buildLog.Infof("Reading the text corpus is done, it took %.6f seconds.", stats.Elapsed.Seconds())
	buildLog.Debug("Corpus", "lines", stats.Lines, "sentences", stats.Sentences, "empty", stats.Empty, "tokens", stats.Tokens, "entries", index.Stats()["entries"])

	utils.ReportMemUsage("Loading of the text corpus trie", memBefore, utils.ReadMemUsage())
	return index, nil
}

func loadConfig(customPath string) (*config.Config, string, *utils.PathResolver) {
	defaultPath := ""
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	} else if defaultPath, err = pathResolver.GetConfigPath(config.FileName); err != nil {
		log.Warnf("Failed to determine config path: %v", err)
		defaultPath = ""
	}
	cfg, path := config.LoadConfigWithPriority(customPath, defaultPath)
	return cfg, path, pathResolver
}

// applyFlags copies explicitly set flags over the config file values.
func applyFlags(cfg *config.Config, opts options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "order":
			cfg.Trie.MaxOrder = opts.order
		case "delim":
			cfg.Trie.Delimiter = opts.delim
		case "cache":
			cfg.Trie.Cache = opts.cache
		case "backend":
			cfg.Trie.Backend = opts.backend
		}
	})
}

// applyDebugLevel handles -level and the optional trailing debug-level argument.
func applyDebugLevel(value string) {
	level, ok := logger.ParseLevel(strings.ToLower(value))
	if !ok {
		log.Warnf("Ignoring an unknown value of [debug-level] parameter: '%s'", value)
		return
	}
	log.SetLevel(level)
	log.Infof("Setting the debugging level to '%s'", level)
}

func historyPath(cfg *config.Config, paths *utils.PathResolver) string {
	if !cfg.CLI.History || paths == nil {
		return ""
	}
	return paths.GetHistoryPath()
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Running:\n")
	fmt.Fprintf(out, "  %s [flags] <train_file> <test_file> [debug-level]\n", name)
	fmt.Fprintf(out, "      <train_file> - a tokenized text corpus, one sentence per line,\n")
	fmt.Fprintf(out, "                     words and punctuation separated by the delimiter.\n")
	fmt.Fprintf(out, "      <test_file>  - one n-gram per line (not needed with -c or -s).\n")
	fmt.Fprintf(out, "     [debug-level] - one of {info, debug}\n")
	fmt.Fprintf(out, "Output:\n")
	fmt.Fprintf(out, "    For every test n-gram the frequency of the n-gram and of each of its\n")
	fmt.Fprintf(out, "    suffixes, for example:\n")
	fmt.Fprintf(out, "        frequency( mortgages had lured borrowers and ) = 0\n")
	fmt.Fprintf(out, "        frequency( had lured borrowers and ) = 2\n")
	fmt.Fprintf(out, "        frequency( lured borrowers and ) = 4\n")
	fmt.Fprintf(out, "        frequency( borrowers and ) = 56\n")
	fmt.Fprintf(out, "        frequency( and ) = 6453\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ ngramserve ] n-gram frequencies from a hashed trie")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}
