package processor

import (
	"fmt"

	"github.com/leeforge/photoconv/utils"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `mapstructure:"width" json:"width" yaml:"width" default:"1024" validate:"gt=0"`
	Height int `mapstructure:"height" json:"height" yaml:"height" default:"1280" validate:"gt=0"`
}

func (s Size) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid target size %dx%d: both sides must be positive", s.Width, s.Height)
	}
	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Mode selects how an image is mapped onto the target size.
type Mode string

const (
	// ModeFill covers the whole target and crops what does not fit.
	ModeFill Mode = "fill"
	// ModePad fits the whole image and letterboxes the rest.
	ModePad Mode = "pad"
)

// Config holds the per-image processing settings shared by every file in a
// batch.
type Config struct {
	TargetSize Size   `mapstructure:"target_size" json:"target_size" yaml:"target_size"`
	Mode       Mode   `mapstructure:"mode" json:"mode" yaml:"mode" default:"fill" validate:"oneof=fill pad"`
	Threshold  int    `mapstructure:"threshold" json:"threshold" yaml:"threshold" default:"30" validate:"min=0,max=255"`
	SkipCrop   bool   `mapstructure:"skip_crop" json:"skip_crop" yaml:"skip_crop"`
	MinCrop    int    `mapstructure:"min_crop_size" json:"min_crop_size" yaml:"min_crop_size" default:"16" validate:"min=1"`
	Resample   string `mapstructure:"resample" json:"resample" yaml:"resample" default:"lanczos3" validate:"oneof=lanczos3 bicubic bilinear catmullrom nearest"`
	Format     string `mapstructure:"format" json:"format" yaml:"format" default:"avif" validate:"oneof=avif jpeg png"`
	Quality    int    `mapstructure:"quality" json:"quality" yaml:"quality" default:"80" validate:"min=0,max=100"`
}

// SupportedExtensions are the input suffixes picked up by a batch, lower case.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".tiff"}

// IsSupported reports whether name carries a supported input extension,
// ignoring case.
func IsSupported(name string) bool {
	ext := utils.Ext(name)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
