package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/verusnet/verushashd/domain/consensus/utils/blockheader"
	"github.com/verusnet/verushashd/domain/consensus/utils/consensushashing"
	"github.com/verusnet/verushashd/domain/consensus/utils/verushash"
	"github.com/verusnet/verushashd/infrastructure/logger"
	"github.com/verusnet/verushashd/util/panics"
	"github.com/verusnet/verushashd/util/profiling"
	"github.com/verusnet/verushashd/version"
)

// maxLineSize fits the hex encoding of the largest possible header
const maxLineSize = 2*(blockheader.BaseHeaderSize+9+blockheader.MaxSolutionSize) + 2

func main() {
	defer panics.HandlePanic(log, nil)

	cfg, args, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	initLog(cfg.LogDir)

	// Show version at startup.
	log.Infof("Version %s", version.Version())
	params := cfg.NetParams()
	log.Infof("Network %s, chain ID %s, magic %d", params.Name, params.ChainID, params.Magic)
	if cfg.hasHeight() {
		log.Infof("Selecting hash algorithms for height %d", cfg.Height)
	}

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, log)
	}

	lines := args
	if len(lines) == 0 {
		lines, err = readLines(os.Stdin)
		if err != nil {
			panics.Exit(log, fmt.Sprintf("Error reading headers: %s", err))
		}
	}

	hasher := consensushashing.New(params, verushash.DefaultProvider())
	options := &hashOptions{
		height:  cfg.Height,
		reverse: cfg.Reverse,
		verbose: cfg.Verbose,
		workers: cfg.Workers,
	}

	onEnd := logger.LogAndMeasureExecutionTime(log, fmt.Sprintf("hashLines (%d headers)", len(lines)))
	results := hashLines(hasher, lines, options)
	onEnd()

	writer := bufio.NewWriter(os.Stdout)
	for _, result := range results {
		fmt.Fprintln(writer, result)
	}
	err = writer.Flush()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error writing digests: %s", err))
	}
	logger.BackendLog.Close()
}

// readLines returns the non-empty lines of r
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return lines, nil
}
