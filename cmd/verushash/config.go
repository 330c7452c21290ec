package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/verusnet/verushashd/infrastructure/config"
	"github.com/verusnet/verushashd/infrastructure/logger"
	"github.com/verusnet/verushashd/version"
)

const (
	defaultLogFilename    = "verushash.log"
	defaultErrLogFilename = "verushash_err.log"
	defaultLogLevel       = "info"
	noHeight              = -1
)

var (
	// Default configuration options
	defaultWorkers = runtime.NumCPU()
)

type configFlags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	Height      int64  `long:"height" default:"-1" description:"Select the hash algorithm by block height instead of by header markers"`
	Reverse     bool   `short:"r" long:"reverse" description:"Print digests with their bytes reversed, as block explorers display them"`
	Workers     int    `short:"w" long:"workers" description:"Number of headers hashed concurrently"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	LogLevel    string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Verbose     bool   `short:"v" long:"verbose" description:"Print the selected hash algorithm next to every digest"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`
	config.NetworkFlags
}

func (cfg *configFlags) hasHeight() bool {
	return cfg.Height != noHeight
}

func defaultLogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(dir, "verushash", "logs")
}

func parseConfig(args []string) (*configFlags, []string, error) {
	cfg := &configFlags{
		Workers:  defaultWorkers,
		LogLevel: defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	parser.Usage = "[OPTIONS] [hex-encoded headers...]\n\nHeaders are read from standard input, one per line, when none are given."
	remainingArgs, err := parser.ParseArgs(args)

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Height < noHeight {
		return nil, nil, errors.Errorf("--height must not be negative, got %d", cfg.Height)
	}
	if cfg.Workers < 1 {
		return nil, nil, errors.Errorf("--workers must be at least 1, got %d", cfg.Workers)
	}

	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, nil, errors.New("The profile port must be between 1024 and 65535")
		}
	}

	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir()
	}

	return cfg, remainingArgs, nil
}
