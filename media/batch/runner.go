package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/leeforge/photoconv/concurrency"
	apperrors "github.com/leeforge/photoconv/errors"
	"github.com/leeforge/photoconv/logging"
	"github.com/leeforge/photoconv/media/processor"
	"github.com/leeforge/photoconv/media/storage"
	"github.com/leeforge/photoconv/metrics"
	"github.com/leeforge/photoconv/utils"
)

// Runner converts every supported file of InputDir into a numbered output.
type Runner struct {
	opts     Options
	pipeline *processor.ProcessingPipeline
	store    storage.Provider
	logger   logging.Logger
}

// NewRunner validates opts and builds the processing pipeline. A nil store
// is replaced by the provider named in opts.Storage on the first Run; a nil
// logger discards output.
func NewRunner(opts Options, store storage.Provider, logger logging.Logger) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pipeline, err := processor.NewProcessingPipeline(opts.Config)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewNop()
	}

	return &Runner{
		opts:     opts,
		pipeline: pipeline,
		store:    store,
		logger:   logger,
	}, nil
}

// Options returns the options the runner was built with.
func (r *Runner) Options() Options {
	return r.opts
}

// Run processes the whole batch. Only fatal errors are returned: a missing
// input folder or an unusable output destination. Per-file failures are
// logged and recorded in the report, and the batch goes on. Once ctx is done
// no new file is started; the rest are reported as canceled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := newReport(r.opts)
	ctx = logging.SetRunID(ctx, report.RunID)
	ctx = logging.ToContext(ctx, r.logger)
	logger := logging.WithContext(r.logger, ctx)

	if isDir, exists, err := utils.Exists(r.opts.InputDir); err != nil || !exists || !isDir {
		return nil, apperrors.NewInputNotFound(r.opts.InputDir)
	}

	store, err := r.storage()
	if err != nil {
		return nil, err
	}
	report.Storage = store.Name()

	names, err := Scan(r.opts.InputDir)
	if err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeConfig,
			fmt.Sprintf("failed to read %s", r.opts.InputDir))
	}

	collector := metrics.NewCollector()
	report.Found = len(names)
	collector.SetGauge(MetricFound, float64(len(names)), nil)
	if report.Empty() {
		logger.Info("No supported images found.")
		r.finish(logger, report, collector)
		return report, nil
	}

	logger.Infof("Found %d supported images.", len(names))

	emit := func(result FileResult) {
		report.add(result)
		record(collector, result)
		if result.Status == StatusSuccess {
			logger.Infof("Converted: %s → %s", result.Source, result.Output)
			return
		}
		logger.With(zap.String("stage", result.Stage)).
			Errorf("Failed: %s | %v", result.Source, result.Err)
	}

	if r.opts.Workers > 1 {
		r.runParallel(ctx, store, names, emit)
	} else {
		for i, name := range names {
			emit(r.processFile(ctx, store, i+1, name))
		}
	}

	logger.Info("Done.",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	r.finish(logger, report, collector)
	return report, nil
}

// Metric names recorded for every run.
const (
	MetricFound    = "photoconv_files_found"
	MetricFiles    = "photoconv_files_total"
	MetricDuration = "photoconv_file_duration_seconds"
)

func record(collector *metrics.Collector, result FileResult) {
	labels := map[string]string{"status": string(result.Status)}
	if result.Stage != "" {
		labels["stage"] = result.Stage
	}
	collector.IncCounter(MetricFiles, labels)
	collector.ObserveHistogram(MetricDuration, result.Elapsed.Seconds(), map[string]string{"status": string(result.Status)})
}

func (r *Runner) storage() (storage.Provider, error) {
	if r.store != nil {
		return r.store, nil
	}
	store, err := storage.NewProvider(r.opts.Storage, r.opts.OutputDir)
	if err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, "failed to open output storage")
	}
	r.store = store
	return store, nil
}

func (r *Runner) finish(logger logging.Logger, report *Report, collector *metrics.Collector) {
	report.Metrics = collector.Snapshot()
	report.finish()
	if r.opts.ReportPath == "" {
		return
	}
	if err := WriteReport(r.opts.ReportPath, report); err != nil {
		logger.WithError(err).Warn("failed to write report", zap.String("path", r.opts.ReportPath))
	}
}

// runParallel feeds the worker pool and emits results in index order as
// soon as every lower index has finished.
func (r *Runner) runParallel(ctx context.Context, store storage.Provider, names []string, emit func(FileResult)) {
	pool := concurrency.NewWorkerPool(r.opts.Workers, r.opts.Workers)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, name := range names {
			index, name := i+1, name
			job := concurrency.JobFunc(func(context.Context) concurrency.Result {
				return r.processFile(ctx, store, index, name)
			})
			if err := pool.Submit(ctx, job); err != nil {
				return
			}
		}
	}()

	results := make([]*FileResult, len(names))
	next := 0
	for res := range pool.Results() {
		result := res.(FileResult)
		results[result.Index-1] = &result
		for next < len(results) && results[next] != nil {
			emit(*results[next])
			next++
		}
	}

	for ; next < len(results); next++ {
		if results[next] != nil {
			emit(*results[next])
			continue
		}
		canceled := FileResult{Index: next + 1, Source: names[next]}
		emit(canceled.fail(apperrors.NewCanceled(context.Cause(ctx))))
	}
}

// processFile converts one file. It never panics; a panic in any stage
// becomes a failed result.
func (r *Runner) processFile(ctx context.Context, store storage.Provider, index int, name string) (result FileResult) {
	result = FileResult{Index: index, Source: name}
	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()
	defer apperrors.ErrorRecoverWithHandler(func(err *apperrors.AppError) {
		result = result.fail(err)
	})

	if err := ctx.Err(); err != nil {
		return result.fail(apperrors.NewCanceled(err))
	}

	ctx = logging.SetFile(ctx, name)
	logging.WithContext(logging.FromContext(ctx), ctx).Debug("processing", zap.Int("index", index))

	input, err := os.ReadFile(filepath.Join(r.opts.InputDir, name))
	if err != nil {
		return result.fail(apperrors.WrapWithType(err, apperrors.ErrorTypeRead, "read failed"))
	}

	output, err := r.pipeline.Process(ctx, input)
	if err != nil {
		return result.fail(err)
	}

	encoder := r.pipeline.Encoder()
	filename := fmt.Sprintf("%d.%s", index, encoder.Extension())
	if _, err := store.Upload(ctx, storage.UploadInput{
		File:        bytes.NewReader(output),
		Filename:    filename,
		ContentType: encoder.ContentType(),
		Size:        int64(len(output)),
	}); err != nil {
		return result.fail(apperrors.NewWrite(err, filename))
	}

	result.Output = filename
	result.Status = StatusSuccess
	return result
}
