// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package ingest builds a probe-map model file from a plain-text n-gram
// counts file.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ostafen/lmprobe/internal/env"
	"github.com/ostafen/lmprobe/internal/logger"
	"github.com/ostafen/lmprobe/pkg/pbar"
	"github.com/ostafen/lmprobe/pkg/probemap"
	"github.com/ostafen/lmprobe/pkg/report"
	"github.com/ostafen/lmprobe/pkg/util/format"
)

// Lines in a counts file can carry long n-grams; size the scanner buffer
// generously.
const maxLineSize = 1 << 20

type Options struct {
	Output     string
	ReportFile string
	Expected   uint64
	DisableLog bool
	LogLevel   logger.Level
}

// Build reads the counts file at countsPath and writes a probe-map model
// file to opts.Output. The table is sized from opts.Expected when given,
// otherwise from a counting pre-pass over the input. Every failure aborts
// the build: a duplicate n-gram or an overfull table means the input or the
// sizing is wrong, and the partially written model file is not usable.
func Build(countsPath string, opts Options) error {
	logw := io.Writer(os.Stderr)
	if opts.DisableLog {
		logw = io.Discard
	}
	log := logger.New(logw, opts.LogLevel)

	numElems := opts.Expected
	if numElems == 0 {
		n, err := countEntries(countsPath)
		if err != nil {
			return err
		}
		numElems = n
	}
	if numElems == 0 {
		return fmt.Errorf("ingest: %q contains no n-gram entries", countsPath)
	}

	log.Infof("sizing table for %s n-grams", format.FormatCount(numElems))

	m, err := probemap.New(opts.Output, numElems)
	if err != nil {
		return err
	}

	start := time.Now()

	total, orders, err := insertEntries(countsPath, m, !opts.DisableLog)
	if err != nil {
		m.Close()
		return err
	}

	capacity := m.Capacity()
	occupied := m.Occupied()

	log.Infof("loaded %s n-grams into %s slots (load factor %.2f)",
		format.FormatCount(total), format.FormatCount(capacity),
		float64(occupied)/float64(capacity))

	if err := m.Close(); err != nil {
		return err
	}

	if opts.ReportFile != "" {
		if err := writeReport(opts.ReportFile, countsPath, opts.Output, total, capacity, occupied, orders, time.Since(start)); err != nil {
			return fmt.Errorf("ingest: failed to write build report: %w", err)
		}
		log.Infof("build report written to %s", opts.ReportFile)
	}
	return nil
}

// countEntries is the sizing pre-pass: it counts the lines that will become
// insertions, without parsing them fully. Malformed lines are counted too
// and reported by the insert pass instead.
func countEntries(countsPath string) (uint64, error) {
	f, err := os.Open(countsPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var n uint64

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if isEntryLine(scanner.Text()) {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("ingest: failed to read %q: %w", countsPath, err)
	}
	return n, nil
}

func isEntryLine(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
			continue
		case '#':
			return false
		default:
			return true
		}
	}
	return false
}

func insertEntries(countsPath string, m *probemap.ProbeMap, progress bool) (uint64, map[int]uint64, error) {
	f, err := os.Open(countsPath)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, nil, err
	}

	var pb *pbar.ProgressBarState
	if progress {
		pb = pbar.NewProgressBarState(fi.Size())
	}

	var (
		total  uint64
		orders = map[int]uint64{}
		lineNo int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		entry, ok, err := ParseEntry(line)
		if err != nil {
			return 0, nil, fmt.Errorf("ingest: %s:%d: %w", countsPath, lineNo, err)
		}
		if ok {
			if err := m.Insert(entry.Tokens, entry.Prob, entry.Backoff); err != nil {
				return 0, nil, fmt.Errorf("ingest: %s:%d: %w", countsPath, lineNo, err)
			}
			total++
			orders[len(entry.Tokens)]++
		}

		if pb != nil {
			pb.ProcessedBytes += int64(len(line)) + 1
			pb.EntriesLoaded = int(total)
			pb.Render(false)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("ingest: failed to read %q: %w", countsPath, err)
	}

	if pb != nil {
		pb.Render(true)
		pb.Finish()
	}
	return total, orders, nil
}

func writeReport(path, countsPath, modelPath string, total, capacity, occupied uint64, orders map[int]uint64, elapsed time.Duration) error {
	fi, err := os.Stat(modelPath)
	if err != nil {
		return err
	}

	ns := make([]int, 0, len(orders))
	for n := range orders {
		ns = append(ns, n)
	}
	sort.Ints(ns)

	orderCounts := make([]report.OrderCount, 0, len(ns))
	for _, n := range ns {
		orderCounts = append(orderCounts, report.OrderCount{N: n, Count: orders[n]})
	}

	return report.WriteFile(path, report.BuildReport{
		Creator: report.Creator{
			Package:   env.AppName,
			Version:   env.Version,
			BuildTime: env.BuildTime,
		},
		Source: report.Source{
			CountsFile: countsPath,
			Entries:    total,
		},
		Table: report.Table{
			ModelFile:  modelPath,
			Capacity:   capacity,
			Occupied:   occupied,
			LoadFactor: float64(occupied) / float64(capacity),
			FileSize:   fi.Size(),
		},
		Orders:   orderCounts,
		Duration: report.Duration{Millis: elapsed.Milliseconds()},
	})
}
