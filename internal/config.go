package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nocturnecity/iconresizer/pkg"
)

const (
	DefaultSourcePath = "icon.png"
	DefaultOutputDir  = "public"
	DefaultLogLevel   = "info"
)

// Config is the optional YAML file read by `iconresizer run -config`.
type Config struct {
	Source      string   `yaml:"source"`
	OutputDir   string   `yaml:"output_dir"`
	LogLevel    string   `yaml:"log_level"`
	MetricsFile string   `yaml:"metrics_file"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

func DefaultConfig() *Config {
	return &Config{
		Source:    DefaultSourcePath,
		OutputDir: DefaultOutputDir,
		LogLevel:  DefaultLogLevel,
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file keep their default.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.S3.Bucket == "" && (c.S3.Region != "" || c.S3.Prefix != "") {
		return fmt.Errorf("s3.bucket is required when s3 is configured")
	}
	req := c.Request()
	return req.Validate()
}

// Request builds the resize request. Publishing is enabled only when a bucket is set.
func (c *Config) Request() pkg.Request {
	req := pkg.Request{
		SourcePath: c.Source,
		OutputDir:  c.OutputDir,
	}
	if c.S3.Bucket != "" {
		req.Publish = &pkg.PublishOptions{
			BucketName: c.S3.Bucket,
			Region:     c.S3.Region,
			Prefix:     c.S3.Prefix,
		}
	}
	return req
}
