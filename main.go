package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/sandeepkandula/blsync/source"
	"github.com/sandeepkandula/blsync/sync"
	"github.com/sandeepkandula/blsync/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfg *Config

	rootCmd := &cobra.Command{
		Use:           "blsync",
		Short:         "Mirror the BLS time series directory and a population API snapshot into S3",
		Version:       version.Detailed(),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(cmd, v); err != nil {
				return err
			}
			level, err := parseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			setupLogger(cmd.ErrOrStderr(), level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runSync(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().String("source-url", defaultSourceURL, "HTML directory index to mirror")
	rootCmd.Flags().String("api-url", defaultAPIURL, "JSON API to snapshot")
	rootCmd.Flags().String("api-file", defaultAPIFile, "file name of the API snapshot")
	rootCmd.Flags().String("storage-class", defaultStorageClass, "S3 storage class for uploads")
	rootCmd.Flags().Int64("part-size", defaultPartSize, "multipart threshold in bytes; larger files get ETags that never match")
	rootCmd.Flags().String("work-dir", defaultWorkDir, "staging directory for downloads")
	rootCmd.Flags().Bool("dry-run", false, "log uploads without making them")
	rootCmd.Flags().Bool("cleanup", false, "remove staged files after the run")

	pf := rootCmd.PersistentFlags()
	pf.StringP("bucket", "b", defaultBucket, "destination S3 bucket")
	pf.StringP("prefix", "p", defaultPrefix, "key prefix within the bucket")
	pf.String("region", defaultRegion, "AWS region")
	pf.String("endpoint", "", "custom S3 endpoint (LocalStack, MinIO); implies path-style addressing")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.StringP("config", "c", "", "config file (json, yaml or toml)")

	rootCmd.AddCommand(newListCmd(func() *Config { return cfg }))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func setupLogger(w io.Writer, level slog.Level) {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    noColor,
	})))
}

func newDestination(ctx context.Context, cfg *Config) (*sync.S3Destination, error) {
	client, err := sync.NewS3Client(ctx, sync.S3Config{
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return sync.NewS3Destination(client, cfg.Bucket, cfg.Prefix, types.StorageClass(cfg.StorageClass), cfg.PartSize), nil
}

func runSync(ctx context.Context, cfg *Config) error {
	dst, err := newDestination(ctx, cfg)
	if err != nil {
		return err
	}

	httpClient := source.NewClient("")
	slog.Info("sync started", "source", cfg.SourceURL, "api", cfg.APIURL, "bucket", cfg.Bucket, "prefix", cfg.Prefix)

	res, err := sync.Run(ctx, sync.Options{
		Sources: []sync.Source{
			&source.Directory{Client: httpClient, URL: cfg.SourceURL},
			&source.API{Client: httpClient, URL: cfg.APIURL, Filename: cfg.APIFile},
		},
		Dst:     dst,
		WorkDir: cfg.WorkDir,
		DryRun:  cfg.DryRun,
		Cleanup: cfg.Cleanup,
	})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	slog.Info("sync finished", "uploaded", len(res.Uploaded), "unchanged", len(res.Skipped), "dry_run", cfg.DryRun)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("blsync", "error", err)
		stop()
		os.Exit(1)
	}
}
