package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSProvider uploads to an Aliyun OSS bucket.
type OSSProvider struct {
	client *oss.Client
	bucket *oss.Bucket
	prefix string
	domain string // custom or CDN domain
}

// NewOSSProvider connects to the bucket in config.
// Endpoint example: oss-cn-hangzhou.aliyuncs.com
func NewOSSProvider(config OSSConfig) (*OSSProvider, error) {
	client, err := oss.New(config.Endpoint, config.AccessKeyID, config.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", config.Bucket, err)
	}

	return &OSSProvider{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(config.Prefix, "/"),
		domain: bucketDomain(config),
	}, nil
}

func bucketDomain(config OSSConfig) string {
	domain := config.Domain
	if domain == "" {
		endpoint := strings.TrimPrefix(strings.TrimPrefix(config.Endpoint, "https://"), "http://")
		return fmt.Sprintf("https://%s.%s", config.Bucket, endpoint)
	}
	if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}
	return strings.TrimSuffix(domain, "/")
}

// objectKey joins the prefix, folder and filename without a leading slash.
func (p *OSSProvider) objectKey(parts ...string) string {
	return strings.TrimPrefix(path.Join(append([]string{p.prefix}, parts...)...), "/")
}

// Upload puts the object. The SDK has no context support, so ctx is only
// checked before the request starts.
func (p *OSSProvider) Upload(ctx context.Context, input UploadInput) (UploadOutput, error) {
	if err := ctx.Err(); err != nil {
		return UploadOutput{}, err
	}

	key := p.objectKey(input.Folder, input.Filename)

	var options []oss.Option
	if input.ContentType != "" {
		options = append(options, oss.ContentType(input.ContentType))
	}

	if err := p.bucket.PutObject(key, input.File, options...); err != nil {
		return UploadOutput{}, fmt.Errorf("failed to upload to OSS: %w", err)
	}

	return UploadOutput{
		URL:  fmt.Sprintf("%s/%s", p.domain, key),
		Path: key,
		Size: input.Size,
	}, nil
}

// Exists checks if an object exists.
func (p *OSSProvider) Exists(ctx context.Context, path string) (bool, error) {
	return p.bucket.IsObjectExist(p.objectKey(path))
}

// Delete removes an object.
func (p *OSSProvider) Delete(ctx context.Context, path string) error {
	if err := p.bucket.DeleteObject(p.objectKey(path)); err != nil {
		return fmt.Errorf("failed to delete from OSS: %w", err)
	}
	return nil
}

func (p *OSSProvider) Name() string {
	return "oss"
}
