package batch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/leeforge/photoconv/errors"
	"github.com/leeforge/photoconv/json"
	"github.com/leeforge/photoconv/metrics"
	"github.com/leeforge/photoconv/utils"
)

// Status is the outcome of one file.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// FileResult is the outcome of one input file.
type FileResult struct {
	// Index is the 1-based position in sorted order. Failed files keep theirs.
	Index  int    `json:"index"`
	Source string `json:"source"`
	Output string `json:"output,omitempty"`
	Status Status `json:"status"`
	// Stage is the failing stage (decode, crop, normalize, encode, write...).
	Stage string `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
	// Elapsed is the wall time spent on the file.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// GetError lets a FileResult travel through a concurrency.WorkerPool.
func (r FileResult) GetError() error {
	return r.Err
}

func (r FileResult) fail(err error) FileResult {
	r.Status = StatusFailed
	r.Output = ""
	r.Err = err
	r.Error = err.Error()
	r.Stage = string(apperrors.TypeOf(err))
	return r
}

// Report summarizes one run.
type Report struct {
	RunID      string       `json:"run_id"`
	InputDir   string       `json:"input_dir"`
	OutputDir  string       `json:"output_dir"`
	Storage    string       `json:"storage"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Found      int          `json:"found"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Results    []FileResult `json:"results"`
	// Metrics holds per-stage counters and timings of this run.
	Metrics []metrics.Metric `json:"metrics,omitempty"`
}

func newReport(opts Options) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		InputDir:  opts.InputDir,
		OutputDir: opts.OutputDir,
		StartedAt: time.Now(),
		Results:   []FileResult{},
	}
}

func (r *Report) add(result FileResult) {
	r.Results = append(r.Results, result)
	if result.Status == StatusSuccess {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

func (r *Report) finish() {
	r.FinishedAt = time.Now()
}

// Empty reports whether no supported input was found.
func (r *Report) Empty() bool {
	return r.Found == 0
}

// Outputs returns the written file names in index order.
func (r *Report) Outputs() []string {
	var outputs []string
	for _, result := range r.Results {
		if result.Status == StatusSuccess {
			outputs = append(outputs, result.Output)
		}
	}
	return outputs
}

// Errors collects the per-file errors.
func (r *Report) Errors() *apperrors.ErrorChain {
	chain := apperrors.NewErrorChain()
	for _, result := range r.Results {
		chain.Add(result.Err)
	}
	return chain
}

// WriteReport writes report as indented JSON, creating parent directories.
func WriteReport(path string, report *Report) error {
	if err := utils.CreateDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(report); err != nil {
		return err
	}
	return f.Close()
}
