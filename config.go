package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultSourceURL    = "https://download.bls.gov/pub/time.series/pr/"
	defaultAPIURL       = "https://datausa.io/api/data?drilldowns=Nation&measures=Population"
	defaultAPIFile      = "population_data.json"
	defaultBucket       = "rearc-data-quest-1"
	defaultPrefix       = "bls/"
	defaultRegion       = "us-east-2"
	defaultStorageClass = string(types.StorageClassStandard)
	defaultPartSize     = 64 << 20
	defaultWorkDir      = "tmp"
)

// Config is the merged result of flags, BLSYNC_* environment variables and
// the optional config file, in that order of precedence.
type Config struct {
	SourceURL    string
	APIURL       string
	APIFile      string
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	StorageClass string
	PartSize     int64
	WorkDir      string
	DryRun       bool
	Cleanup      bool
	LogLevel     string
}

// flag name -> config key
var flagKeys = map[string]string{
	"source-url":    "source_url",
	"api-url":       "api_url",
	"api-file":      "api_file",
	"bucket":        "bucket",
	"prefix":        "prefix",
	"region":        "region",
	"endpoint":      "endpoint",
	"storage-class": "storage_class",
	"part-size":     "part_size",
	"work-dir":      "work_dir",
	"dry-run":       "dry_run",
	"cleanup":       "cleanup",
	"log-level":     "log_level",
}

func loadConfig(cmd *cobra.Command, v *viper.Viper) (*Config, error) {
	if f := cmd.Flag("config"); f != nil && f.Changed {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix("BLSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Config{
		SourceURL:    v.GetString("source_url"),
		APIURL:       v.GetString("api_url"),
		APIFile:      v.GetString("api_file"),
		Bucket:       v.GetString("bucket"),
		Prefix:       v.GetString("prefix"),
		Region:       v.GetString("region"),
		Endpoint:     v.GetString("endpoint"),
		AccessKey:    v.GetString("access_key"),
		SecretKey:    v.GetString("secret_key"),
		StorageClass: v.GetString("storage_class"),
		PartSize:     v.GetInt64("part_size"),
		WorkDir:      v.GetString("work_dir"),
		DryRun:       v.GetBool("dry_run"),
		Cleanup:      v.GetBool("cleanup"),
		LogLevel:     v.GetString("log_level"),
	}, nil
}

// Validate checks everything a sync run needs.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := validateURL("source url", c.SourceURL); err != nil {
		return err
	}
	if err := validateURL("api url", c.APIURL); err != nil {
		return err
	}
	if c.APIFile == "" || c.APIFile != filepath.Base(c.APIFile) {
		return fmt.Errorf("api file %q must be a plain file name", c.APIFile)
	}
	if c.StorageClass != "" && !slices.Contains(types.StorageClass("").Values(), types.StorageClass(c.StorageClass)) {
		return fmt.Errorf("unknown storage class %q", c.StorageClass)
	}
	if c.PartSize < 0 {
		return errors.New("part size must not be negative")
	}
	if c.WorkDir == "" {
		return errors.New("work dir is not set")
	}
	return nil
}

// validateStore checks only what is needed to reach the bucket.
func (c *Config) validateStore() error {
	if c.Bucket == "" {
		return errors.New("bucket is not set")
	}
	if c.Endpoint != "" {
		if err := validateURL("endpoint", c.Endpoint); err != nil {
			return err
		}
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("access key and secret key must be set together")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func validateURL(label, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q must be an absolute http(s) URL", label, raw)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
