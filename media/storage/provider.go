package storage

import (
	"context"
	"fmt"
	"io"
)

// Provider stores converted images.
type Provider interface {
	Upload(ctx context.Context, input UploadInput) (UploadOutput, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	Name() string
}

// UploadInput describes one object to store.
type UploadInput struct {
	File        io.Reader
	Filename    string
	Folder      string
	ContentType string
	Size        int64
}

// UploadOutput is where the object ended up.
type UploadOutput struct {
	// URL is a file path for local storage and an object URL for OSS.
	URL  string
	Path string
	Size int64
}

// Config selects and configures the provider.
type Config struct {
	Type string    `mapstructure:"type" json:"type" yaml:"type" default:"local" validate:"oneof=local oss"`
	OSS  OSSConfig `mapstructure:"oss" json:"oss" yaml:"oss"`
}

// OSSConfig holds the Aliyun OSS connection settings.
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"access_key_id" yaml:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret" json:"-" yaml:"access_key_secret"`
	Bucket          string `mapstructure:"bucket" json:"bucket" yaml:"bucket"`
	// Prefix is prepended to every object key.
	Prefix string `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	// Domain is a custom or CDN domain used in returned URLs.
	Domain string `mapstructure:"domain" json:"domain" yaml:"domain"`
}

// NewProvider builds the provider named by config. Local storage writes
// under outputDir.
func NewProvider(config Config, outputDir string) (Provider, error) {
	switch config.Type {
	case "", "local":
		return NewLocalProvider(outputDir)
	case "oss":
		oss := config.OSS
		if oss.Endpoint == "" || oss.Bucket == "" {
			return nil, fmt.Errorf("oss provider requires endpoint and bucket")
		}
		return NewOSSProvider(oss)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
