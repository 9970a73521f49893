package processor

import (
	"bytes"
	"context"
	"image"

	apperrors "github.com/leeforge/photoconv/errors"
)

// ProcessingStep transforms one decoded image.
type ProcessingStep interface {
	Name() string
	Process(ctx context.Context, img image.Image) (image.Image, error)
}

// CropStep trims white borders.
type CropStep struct {
	Cropper BorderCropper
}

func (CropStep) Name() string { return "crop" }

func (s CropStep) Process(ctx context.Context, img image.Image) (image.Image, error) {
	return s.Cropper.Crop(img), nil
}

// NormalizeStep maps the image onto the target size.
type NormalizeStep struct {
	Normalizer SizeNormalizer
}

func (NormalizeStep) Name() string { return "normalize" }

func (s NormalizeStep) Process(ctx context.Context, img image.Image) (image.Image, error) {
	out, err := s.Normalizer.Normalize(img)
	if err != nil {
		return nil, apperrors.NewNormalize(err)
	}
	return out, nil
}

// FlattenStep coerces the color mode to one the encoder accepts, based on
// the source image carried in ctx (see WithSource).
type FlattenStep struct{}

func (FlattenStep) Name() string { return "flatten" }

func (FlattenStep) Process(ctx context.Context, img image.Image) (image.Image, error) {
	src := SourceFromContext(ctx)
	if src == nil {
		src = img
	}
	return FlattenAs(src, img), nil
}

type sourceKey struct{}

// WithSource stores the decoded image a transform started from.
func WithSource(ctx context.Context, img image.Image) context.Context {
	return context.WithValue(ctx, sourceKey{}, img)
}

// SourceFromContext returns the image stored by WithSource, or nil.
func SourceFromContext(ctx context.Context) image.Image {
	img, _ := ctx.Value(sourceKey{}).(image.Image)
	return img
}

// ProcessingPipeline decodes, runs its steps in order and encodes.
type ProcessingPipeline struct {
	steps   []ProcessingStep
	encoder Encoder
}

// NewProcessingPipeline builds the pipeline for config.
func NewProcessingPipeline(config Config) (*ProcessingPipeline, error) {
	if err := config.TargetSize.Validate(); err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, "invalid processing config")
	}

	resampler, err := NewResampler(config.Resample)
	if err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, "invalid processing config")
	}

	encoder, err := NewEncoder(config.Format, config.Quality)
	if err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, "invalid processing config")
	}

	steps := []ProcessingStep{}

	if !config.SkipCrop {
		cropper := NewBorderCropper(config.Threshold)
		if config.MinCrop > 0 {
			cropper.MinSize = config.MinCrop
		}
		steps = append(steps, CropStep{Cropper: cropper})
	}

	mode := config.Mode
	if mode == "" {
		mode = ModeFill
	}
	normalizer := NewSizeNormalizer(config.TargetSize, mode)
	normalizer.Resampler = resampler
	steps = append(steps, NormalizeStep{Normalizer: normalizer})

	steps = append(steps, FlattenStep{})

	return &ProcessingPipeline{
		steps:   steps,
		encoder: encoder,
	}, nil
}

// Steps returns the step names in execution order.
func (p *ProcessingPipeline) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}

// Encoder returns the output encoder.
func (p *ProcessingPipeline) Encoder() Encoder {
	return p.encoder
}

// Transform runs every step on img. Errors carry the failing stage as their
// apperrors type.
func (p *ProcessingPipeline) Transform(ctx context.Context, img image.Image) (image.Image, error) {
	if SourceFromContext(ctx) == nil {
		ctx = WithSource(ctx, img)
	}
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewCanceled(err)
		}

		out, err := step.Process(ctx, img)
		if err != nil {
			if apperrors.TypeOf(err) == apperrors.ErrorTypeUnknown {
				err = apperrors.WrapWithType(err, apperrors.ErrorType(step.Name()), step.Name()+" failed")
			}
			return nil, err
		}
		img = out
	}
	return img, nil
}

// Process decodes input, transforms it and returns the encoded output.
func (p *ProcessingPipeline) Process(ctx context.Context, input []byte) ([]byte, error) {
	img, err := Decode(bytes.NewReader(input))
	if err != nil {
		return nil, apperrors.NewDecode(err)
	}

	img, err = p.Transform(ctx, img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := p.encoder.Encode(&buf, img); err != nil {
		return nil, apperrors.NewEncode(err)
	}
	return buf.Bytes(), nil
}
