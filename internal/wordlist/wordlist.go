// Package wordlist loads candidate lists for wordlist-mode runs. The
// engine expects an ordered, trimmed, deduplicated list; this package
// produces one from plain text files, one entry per line.
package wordlist

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// maxLineSize bounds a single wordlist entry.
const maxLineSize = 1024 * 1024

// maxOpenFiles caps concurrent reads in LoadFiles.
const maxOpenFiles = 4

// Load reads one wordlist file: lines are trimmed, empties dropped, and
// duplicates removed keeping the first occurrence.
func Load(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	return dedupe(lines), nil
}

// LoadFiles reads several wordlist files concurrently and concatenates
// them in argument order, deduplicating across the whole result.
func LoadFiles(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	perFile := make([][]string, len(paths))
	sem := semaphore.NewWeighted(maxOpenFiles)
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			lines, err := readLines(path)
			if err != nil {
				return err
			}
			perFile[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, lines := range perFile {
		all = append(all, lines...)
	}
	return dedupe(all), nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
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
		return nil, fmt.Errorf("read wordlist %s: %w", path, err)
	}
	return lines, nil
}

// dedupe keeps the first occurrence of each entry, comparing by xxh3
// hash so huge lists don't hold every string twice.
func dedupe(lines []string) []string {
	seen := make(map[uint64]struct{}, len(lines))
	out := lines[:0]
	for _, line := range lines {
		h := xxh3.HashString(line)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, line)
	}
	return out
}
