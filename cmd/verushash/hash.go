package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/blockheader"
	"github.com/verusnet/verushashd/domain/consensus/utils/consensushashing"
	"github.com/verusnet/verushashd/domain/consensus/utils/hashes"
)

// noVariant is printed in verbose mode for input that doesn't decode to a header
const noVariant = "-"

type hashOptions struct {
	height  int64
	reverse bool
	verbose bool
	workers int
}

// hashLines hashes every hex-encoded header in lines using a bounded set of
// workers, and returns one output line per input line in input order.
func hashLines(hasher *consensushashing.HeaderHasher, lines []string, options *hashOptions) []string {
	results := make([]string, len(lines))
	jobs := make(chan int)

	workers := options.workers
	if workers > len(lines) {
		workers = len(lines)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		spawn(func() {
			defer wg.Done()
			for index := range jobs {
				results[index] = hashLine(hasher, lines[index], options)
			}
		})
	}

	for index := range lines {
		jobs <- index
	}
	close(jobs)
	wg.Wait()

	return results
}

func hashLine(hasher *consensushashing.HeaderHasher, line string, options *hashOptions) string {
	headerBytes, err := hex.DecodeString(strings.TrimSpace(line))
	if err != nil {
		log.Warnf("Input %.16s... is not hex encoded: %s", line, err)
		headerBytes = nil
	}

	var digest *externalapi.DomainHash
	if options.height != noHeight {
		digest = hasher.ComputeHashWithHeight(headerBytes, uint64(options.height))
	} else {
		digest = hasher.ComputeHash(headerBytes)
	}
	if options.reverse {
		digest = hashes.Reversed(digest)
	}

	if !options.verbose {
		return digest.String()
	}
	return fmt.Sprintf("%s %s", digest, selectedVariant(hasher, headerBytes, options.height))
}

func selectedVariant(hasher *consensushashing.HeaderHasher, headerBytes []byte, height int64) string {
	header, err := blockheader.HeaderFromBytes(headerBytes)
	if err != nil {
		return noVariant
	}
	if height != noHeight {
		return hasher.SelectVariantForHeight(header, uint64(height)).String()
	}
	return hasher.SelectVariant(header).String()
}
