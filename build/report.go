package build

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/internal/table"
)

// FileResult is the outcome for one input file. Err is set when the file
// could not be compiled or written; Result holds the compilation otherwise.
type FileResult struct {
	Path   string
	Source string
	Output string // written output path, if any
	Result *saraswati.Result
	Cached bool
	Err    error
}

// Failed reports whether the file produced no output or has error
// diagnostics.
func (f FileResult) Failed() bool {
	return f.Err != nil || (f.Result != nil && f.Result.Diagnostics.HasErrors())
}

// Report aggregates the results of a build in input order.
type Report struct {
	Files    []FileResult
	Duration time.Duration
}

// Cached returns the number of files served from the cache.
func (r *Report) Cached() int {
	n := 0
	for _, f := range r.Files {
		if f.Cached {
			n++
		}
	}
	return n
}

// Failures returns the files that could not be compiled or written.
func (r *Report) Failures() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Counts returns the number of error and warning diagnostics.
func (r *Report) Counts() (errs, warnings int) {
	for _, f := range r.Files {
		if f.Result == nil {
			continue
		}
		errs += len(f.Result.Diagnostics.Errors())
		warnings += len(f.Result.Diagnostics.Warnings())
	}
	return errs, warnings
}

// HasErrors reports whether any file failed or reported an error
// diagnostic.
func (r *Report) HasErrors() bool {
	for _, f := range r.Files {
		if f.Failed() {
			return true
		}
	}
	return false
}

// Err combines every failure and error diagnostic, each prefixed with its
// file, or returns nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Files {
		if f.Err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", f.Path, f.Err))
			continue
		}
		if f.Result == nil {
			continue
		}
		for _, d := range f.Result.Diagnostics.Errors() {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}

// Render writes a per-file summary table to w.
func (r *Report) Render(w io.Writer) {
	t := table.NewTable(w)
	t.WithHeader([]string{"FILE", "REWRITES", "ERRORS", "WARNINGS", "STATUS"})
	t.WithHeaderAlignment([]table.Alignment{table.AlignLeft, table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignLeft})
	t.WithColumnAlignment([]table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignLeft})
	for _, f := range r.Files {
		t.Append(summaryRow(f))
	}
	t.Render()
}

func summaryRow(f FileResult) []string {
	if f.Err != nil {
		return []string{f.Path, "-", "-", "-", "failed"}
	}
	status := "ok"
	switch {
	case f.Result.Diagnostics.HasErrors():
		status = "errors"
	case f.Cached:
		status = "cached"
	}
	return []string{
		f.Path,
		strconv.Itoa(f.Result.Rewrites),
		strconv.Itoa(len(f.Result.Diagnostics.Errors())),
		strconv.Itoa(len(f.Result.Diagnostics.Warnings())),
		status,
	}
}
