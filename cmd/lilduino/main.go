package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/phroun/lilduino"
	"github.com/phroun/lilduino/hal"
	"github.com/phroun/lilduino/hal/sim"
	"github.com/phroun/lilduino/storage"
)

var version = "dev" // set via -ldflags at build time

// housekeepingInterval is how often the simulated radio stack is serviced
// while no script is running.
const housekeepingInterval = 50 * time.Millisecond

func showUsage() {
	fmt.Fprintf(os.Stderr, `lilduino %s - peripheral command bridge on a simulated board

usage: lilduino [options] [script...]

options:
  -c FILE   host configuration (TOML)
  -d        enable debug logging for every category
  -s PATH   file store: a directory, or an image file ending in .db
  -h        show this help

With no scripts, an interactive prompt reads lines from the console.
Type ~ or Ctrl-C to interrupt a running script, Ctrl-D to leave.
`, version)
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, optind, err := getopt.Getopts(os.Args, "c:ds:h")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lilduino: %v\n", err)
		showUsage()
		return 2
	}

	configPath, storePath := "", ""
	debug := false
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'd':
			debug = true
		case 's':
			storePath = opt.Value
		case 'h':
			showUsage()
			return 0
		}
	}
	scripts := os.Args[optind:]

	cfg, err := loadHostConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lilduino: %v\n", err)
		return 1
	}
	if debug {
		cfg.Bridge.Debug = true
		cfg.Bridge.LogCategories = []string{"all"}
	}
	if storePath != "" {
		cfg.Storage.Path = storePath
		cfg.Storage.Backend = "dir"
		if strings.HasSuffix(storePath, ".db") {
			cfg.Storage.Backend = "sqlite"
		}
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lilduino: %v\n", err)
		return 1
	}
	defer closeStore()

	con := newConsole()
	board := newBoard(sim.NewClock(), crlfWriter{con}, cfg.Networks)

	callbacks := lilduino.StorageCallbacks(store, board.Serial)
	errColor := color.New(color.FgHiRed, color.Bold)
	callbacks.UnhandledError = func(pos *lilduino.SourcePosition, message string) {
		offset := 0
		if pos != nil {
			offset = pos.Offset
		}
		_, _ = errColor.Fprintf(board.Serial, "\nUnhandled error at pos %d: %s\n", offset, message)
	}
	bridge, err := lilduino.New(cfg.Bridge, board.HAL(store), callbacks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lilduino: %v\n", err)
		return 1
	}
	bridge.RegisterBoardLibrary()
	logger := bridge.Logger()
	logger.InfoCat(lilduino.CatSystem, "Store: %s (%s)", cfg.Storage.Path, cfg.Storage.Backend)
	h := newHost(bridge)

	scheduler, err := sim.StartHousekeeping(housekeepingInterval, h.whenIdle(board.Radio.Maintain))
	if err != nil {
		logger.ErrorCat(lilduino.CatSystem, "%v", err)
		return 1
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.ErrorCat(lilduino.CatSystem, "housekeeping shutdown: %v", err)
		}
	}()

	// scripts read the console too, for input and the ~ interrupt
	if err := con.start(board.Serial); err != nil {
		fmt.Fprintf(os.Stderr, "lilduino: cannot set up console: %v\n", err)
		return 1
	}
	defer con.restore()

	if len(scripts) > 0 {
		return runScripts(h, scripts)
	}
	repl(h, board.Serial)
	return 0
}

func openStore(sc StorageConfig) (hal.FileStore, func(), error) {
	switch sc.Backend {
	case "dir", "":
		store, err := storage.NewDirStore(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "sqlite":
		store, err := storage.OpenSQLiteStore(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "lilduino: closing %s: %v\n", sc.Path, err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q (want dir or sqlite)", sc.Backend)
}

// runScripts executes host script files in order, stopping at the first
// one that fails.
func runScripts(h *host, scripts []string) int {
	for _, path := range scripts {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lilduino: %v\n", err)
			return 1
		}
		if _, err := h.exec(string(data), path); err != nil {
			return 1
		}
	}
	return 0
}

func repl(h *host, out io.Writer) {
	for {
		_, _ = io.WriteString(out, "> ")
		line, err := h.bridge.ReadLine()
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			_, _ = io.WriteString(out, "\n")
			return
		}
		if errors.Is(err, lilduino.ErrInterrupted) {
			_, _ = io.WriteString(out, "^C\n")
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintf(out, "%v\n", err)
			continue
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}
		v, err := h.exec(line, "")
		if err == nil && v != nil {
			_, _ = fmt.Fprintf(out, "%s\n", v)
		}
	}
}
