package batch

import (
	"github.com/creasty/defaults"

	"github.com/leeforge/photoconv/config"
	"github.com/leeforge/photoconv/media/processor"
	"github.com/leeforge/photoconv/media/storage"
)

// Options configures one batch run.
type Options struct {
	InputDir  string `mapstructure:"input_dir" json:"input_dir" yaml:"input_dir" default:"inputs" validate:"required"`
	OutputDir string `mapstructure:"output_dir" json:"output_dir" yaml:"output_dir" default:"outputs" validate:"required"`

	processor.Config `mapstructure:",squash" yaml:",inline"`

	// Workers above 1 process files in parallel; numbering does not change.
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" default:"1" validate:"min=1,max=64"`
	// ReportPath, when set, receives a JSON report of the run.
	ReportPath string `mapstructure:"report_path" json:"report_path,omitempty" yaml:"report_path"`

	Storage storage.Config `mapstructure:"storage" json:"storage" yaml:"storage"`
}

// DefaultOptions returns inputs -> outputs, 1024x1280 fill, threshold 30,
// AVIF at quality 80, one worker, local storage.
func DefaultOptions() Options {
	var opts Options
	if err := defaults.Set(&opts); err != nil {
		panic(err)
	}
	return opts
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	return config.ValidateStruct(o)
}
