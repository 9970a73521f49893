package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeforge/photoconv/media/processor"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig([]string{"--config", t.TempDir()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "inputs", cfg.Batch.InputDir)
	assert.Equal(t, "outputs", cfg.Batch.OutputDir)
	assert.Equal(t, processor.Size{Width: 1024, Height: 1280}, cfg.Batch.TargetSize)
	assert.Equal(t, processor.ModeFill, cfg.Batch.Mode)
	assert.Equal(t, 30, cfg.Batch.Threshold)
	assert.Equal(t, 80, cfg.Batch.Quality)
	assert.Equal(t, "avif", cfg.Batch.Format)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, "local", cfg.Batch.Storage.Type)
	assert.False(t, cfg.Watch)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.LogInTerminal)
	assert.False(t, cfg.Log.Color)
}

func TestLoadConfig_Layers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photoconv.yaml"), []byte(`
batch:
  input_dir: photos
  quality: 60
  mode: pad
  target_size:
    width: 800
  storage:
    type: local
log:
  format: json
`), 0644))
	t.Setenv("PHOTOCONV_BATCH_QUALITY", "70")

	cfg, err := loadConfig([]string{"--config", dir, "--format", "png", "--no-crop", "--workers", "4", "--log-color"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "photos", cfg.Batch.InputDir)
	assert.Equal(t, 70, cfg.Batch.Quality, "env wins over files")
	assert.Equal(t, "png", cfg.Batch.Format, "flags win over everything")
	assert.Equal(t, processor.ModePad, cfg.Batch.Mode)
	assert.Equal(t, processor.Size{Width: 800, Height: 1280}, cfg.Batch.TargetSize)
	assert.True(t, cfg.Batch.SkipCrop)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Log.Color)
}

func TestLoadConfig_EnvOnlyKeys(t *testing.T) {
	t.Setenv("PHOTOCONV_BATCH_STORAGE_OSS_ENDPOINT", "oss-cn.example.com")
	t.Setenv("PHOTOCONV_BATCH_STORAGE_OSS_ACCESS_KEY_SECRET", "s3cret")
	t.Setenv("PHOTOCONV_BATCH_QUALITY", "55")
	t.Setenv("PHOTOCONV_LOG_MAX_BACKUPS", "9")
	t.Setenv("PHOTOCONV_DEBOUNCE", "2s")

	cfg, err := loadConfig([]string{"--config", t.TempDir()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "oss-cn.example.com", cfg.Batch.Storage.OSS.Endpoint)
	assert.Equal(t, "s3cret", cfg.Batch.Storage.OSS.AccessKeySecret)
	assert.Equal(t, 55, cfg.Batch.Quality)
	assert.Equal(t, 9, cfg.Log.MaxBackups)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep their defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig([]string{"--config", t.TempDir(), "--quality", "150"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AppConfig.Batch.Config.Quality must be less than or equal to 100")

	_, err = loadConfig([]string{"--bogus"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"--help"}, &out))
	assert.Contains(t, out.String(), "--threshold")
}

func TestRun_BadFlag(t *testing.T) {
	assert.Equal(t, 2, run(context.Background(), []string{"--quality", "x"}, &bytes.Buffer{}))
}

func TestRun_MissingInputExitsNonZero(t *testing.T) {
	root := t.TempDir()
	code := run(context.Background(), []string{
		"--config", root,
		"--input", filepath.Join(root, "inputs"),
		"--output", filepath.Join(root, "outputs"),
		"--log-level", "fatal",
	}, &bytes.Buffer{})
	assert.Equal(t, 1, code)
}

func TestRun_ConvertsFolder(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "inputs")
	output := filepath.Join(root, "nested", "outputs")
	require.NoError(t, os.MkdirAll(input, 0755))
	require.NoError(t, imaging.Save(imaging.New(40, 30, color.Black), filepath.Join(input, "b.png")))
	require.NoError(t, imaging.Save(imaging.New(30, 40, color.Black), filepath.Join(input, "a.jpg")))
	require.NoError(t, os.WriteFile(filepath.Join(input, "c.txt"), []byte("x"), 0644))

	code := run(context.Background(), []string{
		"--config", root,
		"--input", input,
		"--output", output,
		"--width", "32",
		"--height", "40",
		"--format", "png",
		"--report", filepath.Join(root, "report.json"),
		"--log-level", "fatal",
	}, &bytes.Buffer{})
	require.Equal(t, 0, code)

	img, err := imaging.Open(filepath.Join(output, "1.png"))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
	assert.FileExists(t, filepath.Join(output, "2.png"))
	assert.NoFileExists(t, filepath.Join(output, "3.png"))
	assert.FileExists(t, filepath.Join(root, "report.json"))
}
