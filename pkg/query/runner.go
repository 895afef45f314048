package query

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// RunStats summarizes a batch of queries.
type RunStats struct {
	Queries   int
	Failed    int
	QueryTime time.Duration
}

// RunOptions control the batch output.
type RunOptions struct {
	// ReportTime adds a "CPU Time needed" line after each result.
	ReportTime bool
}

// Run reads one query per line from r and writes the suffix frequencies of
// each to w. Blank lines are skipped. A malformed line is logged, counted in
// Failed and does not stop the run; read and write errors do.
func (e *Engine) Run(r io.Reader, w io.Writer, opts RunOptions) (RunStats, error) {
	var stats RunStats
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		log.Debugf("%s:", line)
		res, err := e.QueryLine(line)
		if err != nil {
			stats.Failed++
			log.Errorf("Skipping query on line %d (%q): %v", lineNo, line, err)
			continue
		}
		stats.Queries++
		stats.QueryTime += res.Elapsed

		if err := WriteResult(w, res, opts.ReportTime); err != nil {
			return stats, fmt.Errorf("failed to write result for line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read queries after line %d: %w", lineNo, err)
	}
	return stats, nil
}

// WriteResult prints one result, one suffix per line, full n-gram first:
//
//	frequency( had lured borrowers and ) = 2
func WriteResult(w io.Writer, res Result, reportTime bool) error {
	for i, suffix := range res.Suffixes {
		if _, err := fmt.Fprintf(w, "frequency( %s ) = %d\n", suffix, res.Frequencies[i]); err != nil {
			return err
		}
	}
	if reportTime {
		if _, err := fmt.Fprintf(w, "CPU Time needed: %.9f sec.\n", res.Elapsed.Seconds()); err != nil {
			return err
		}
	}
	return nil
}
