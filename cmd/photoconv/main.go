// Command photoconv converts every image in an input folder to a numbered,
// fixed-size AVIF (or JPEG/PNG) in an output folder.
//
//	photoconv --input inputs --output outputs --width 1024 --height 1280
//
// Settings are read from photoconv.yaml (plus .local and per-environment
// variants), PHOTOCONV_* environment variables and flags, in increasing
// priority.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/leeforge/photoconv/config"
	"github.com/leeforge/photoconv/logging"
	"github.com/leeforge/photoconv/media/batch"
	"github.com/leeforge/photoconv/media/watch"
)

// AppConfig is the full command configuration.
type AppConfig struct {
	Batch batch.Options  `mapstructure:"batch"`
	Log   logging.Config `mapstructure:"log"`

	// Watch keeps running and converts again whenever the input folder
	// changes.
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce" default:"500ms" validate:"min=0"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"input":      "batch.input_dir",
	"output":     "batch.output_dir",
	"width":      "batch.target_size.width",
	"height":     "batch.target_size.height",
	"mode":       "batch.mode",
	"threshold":  "batch.threshold",
	"no-crop":    "batch.skip_crop",
	"min-crop":   "batch.min_crop_size",
	"resample":   "batch.resample",
	"format":     "batch.format",
	"quality":    "batch.quality",
	"workers":    "batch.workers",
	"report":     "batch.report_path",
	"storage":    "batch.storage.type",
	"watch":      "watch",
	"debounce":   "debounce",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-color":  "log.color",
}

func newFlagSet(output io.Writer) (*pflag.FlagSet, *string) {
	defaults := batch.DefaultOptions()
	logDefaults := logging.DefaultConfig()

	fs := pflag.NewFlagSet("photoconv", pflag.ContinueOnError)
	fs.SetOutput(output)

	configDir := fs.String("config", "", "directory holding photoconv.yaml (default $CONFIG_PATH or .)")
	fs.String("input", defaults.InputDir, "folder to read images from")
	fs.String("output", defaults.OutputDir, "folder to write numbered images to")
	fs.Int("width", defaults.TargetSize.Width, "output width in pixels")
	fs.Int("height", defaults.TargetSize.Height, "output height in pixels")
	fs.String("mode", string(defaults.Mode), "fill (crop to cover) or pad (letterbox in white)")
	fs.Int("threshold", defaults.Threshold, "border crop threshold, 0-255")
	fs.Bool("no-crop", defaults.SkipCrop, "do not crop white borders")
	fs.Int("min-crop", defaults.MinCrop, "leave images uncropped when the content box is smaller than this")
	fs.String("resample", defaults.Resample, "resize filter: lanczos3, bicubic, bilinear, catmullrom or nearest")
	fs.String("format", defaults.Format, "output format: avif, jpeg or png")
	fs.Int("quality", defaults.Quality, "encoder quality, 0-100")
	fs.Int("workers", defaults.Workers, "files processed in parallel")
	fs.String("report", defaults.ReportPath, "write a JSON report of each run to this path")
	fs.String("storage", defaults.Storage.Type, "output storage: local or oss")
	fs.Bool("watch", false, "keep running and convert again when the input folder changes")
	fs.Duration("debounce", watch.DefaultDebounce, "quiet period before a watch run")
	fs.String("log-level", logDefaults.Level, "debug, info, warn or error")
	fs.String("log-format", logDefaults.Format, "console or json")
	fs.Bool("log-color", logDefaults.Color, "color console log levels")

	return fs, configDir
}

// loadConfig merges files, environment and args into an AppConfig.
func loadConfig(args []string, output io.Writer) (AppConfig, error) {
	fs, configDir := newFlagSet(output)
	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	opts := config.DefaultConfigOptions()
	if *configDir != "" {
		opts.BasePath = *configDir
	}

	c, err := config.NewConfig(opts)
	if err != nil {
		return AppConfig{}, err
	}
	if err := c.BindFlags(fs, flagKeys); err != nil {
		return AppConfig{}, err
	}

	cfg := AppConfig{Log: logging.DefaultConfig()}
	if err := c.BindWithDefaults(&cfg); err != nil {
		return AppConfig{}, err
	}
	if err := c.Validate(&cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := logging.NewLogger(cfg.Log)
	logging.SetGlobal(logger)
	defer func() {
		_ = logger.Sync()
		_ = logging.CloseAllWriters()
	}()
	factory := logging.NewFactory(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := batch.NewRunner(cfg.Batch, nil, factory.GetLogger("batch"))
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	if _, err := runner.Run(ctx); err != nil {
		logger.Error(err.Error())
		return 1
	}
	if !cfg.Watch {
		if ctx.Err() != nil {
			return 130
		}
		return 0
	}

	watcher, err := watch.NewWatcher(cfg.Batch.InputDir, cfg.Debounce, factory.GetLogger("watch"))
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	if err := watcher.Run(ctx, func(ctx context.Context) {
		if _, err := runner.Run(ctx); err != nil {
			logger.Error(err.Error())
		}
	}); err != nil {
		logger.Error(err.Error())
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}
