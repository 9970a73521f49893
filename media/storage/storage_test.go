package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_CreatesBaseWithParents(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a", "b", "outputs")

	p, err := NewLocalProvider(base)
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())
	assert.DirExists(t, base)
}

func TestLocalProvider_UploadExistsDelete(t *testing.T) {
	base := t.TempDir()
	p, err := NewLocalProvider(base)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := p.Upload(ctx, UploadInput{
		File:        strings.NewReader("image bytes"),
		Filename:    "1.avif",
		ContentType: "image/avif",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "1.avif"), out.URL)
	assert.Equal(t, "1.avif", out.Path)
	assert.Equal(t, int64(11), out.Size)

	data, err := os.ReadFile(filepath.Join(base, "1.avif"))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	exists, err := p.Exists(ctx, "1.avif")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, p.Delete(ctx, "1.avif"))
	require.NoError(t, p.Delete(ctx, "1.avif"))

	exists, err = p.Exists(ctx, "1.avif")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalProvider_UploadOverwritesAndLeavesNoTemp(t *testing.T) {
	base := t.TempDir()
	p, err := NewLocalProvider(base)
	require.NoError(t, err)

	for _, content := range []string{"first version", "second"} {
		_, err := p.Upload(context.Background(), UploadInput{File: strings.NewReader(content), Filename: "2.avif"})
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(base, "2.avif"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalProvider_UploadIntoFolder(t *testing.T) {
	base := t.TempDir()
	p, err := NewLocalProvider(base)
	require.NoError(t, err)

	out, err := p.Upload(context.Background(), UploadInput{
		File:     strings.NewReader("x"),
		Filename: "3.png",
		Folder:   "run/nested",
	})
	require.NoError(t, err)
	assert.Equal(t, "run/nested/3.png", out.Path)
	assert.FileExists(t, filepath.Join(base, "run", "nested", "3.png"))
}

func TestLocalProvider_CanceledContext(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Upload(ctx, UploadInput{File: strings.NewReader("x"), Filename: "1.avif"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	p, err := NewProvider(Config{}, dir)
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())

	_, err = NewProvider(Config{Type: "oss"}, dir)
	assert.ErrorContains(t, err, "endpoint and bucket")

	_, err = NewProvider(Config{Type: "s3"}, dir)
	assert.ErrorContains(t, err, "unsupported provider type")
}

func TestOSSProvider_Keys(t *testing.T) {
	p, err := NewOSSProvider(OSSConfig{
		Endpoint:        "oss-cn-hangzhou.aliyuncs.com",
		AccessKeyID:     "id",
		AccessKeySecret: "secret",
		Bucket:          "photos",
		Prefix:          "/converted/",
	})
	require.NoError(t, err)

	assert.Equal(t, "oss", p.Name())
	assert.Equal(t, "converted/run/1.avif", p.objectKey("run", "1.avif"))
	assert.Equal(t, "converted/1.avif", p.objectKey("", "1.avif"))
	assert.Equal(t, "https://photos.oss-cn-hangzhou.aliyuncs.com", p.domain)
}

func TestBucketDomain(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", bucketDomain(OSSConfig{Domain: "cdn.example.com/"}))
	assert.Equal(t, "http://cdn.example.com", bucketDomain(OSSConfig{Domain: "http://cdn.example.com"}))
	assert.Equal(t, "https://b.oss.example.com", bucketDomain(OSSConfig{Bucket: "b", Endpoint: "https://oss.example.com"}))
}
