package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3proxy/config"
)

var version = "dev"

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "s3proxy",
	Short:   "Serve a static website from an S3 bucket",
	Long: `s3proxy is an HTTP gateway that serves a static website whose files
live in an S3 bucket or an S3-compatible object store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[skipConfig]; ok {
			setupLogging(config.LogConfig{}, "")
			return nil
		}

		configFiles, _ := cmd.Flags().GetStringSlice("config")
		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg.Log, cfg.Env)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSlice("config", nil, "config file path, repeat to merge (default: ./config.yaml)")
	flags.Int("port", 0, "HTTP server port (env: SERVER_PORT)")
	flags.String("bucket", "", "bucket holding the site (env: BUCKET_NAME)")
	flags.String("region", "", "AWS region (env: AWS_REGION)")
	flags.String("endpoint", "", "S3 endpoint override, e.g. http://localhost:9000 (env: S3PROXY_S3_ENDPOINT)")
	flags.Bool("path-style", false, "use path-style bucket addressing (env: S3PROXY_S3_PATH_STYLE)")
	flags.String("backend", "", "storage backend: s3, filesystem (default: s3, env: S3PROXY_STORAGE_BACKEND)")
	flags.String("storage-path", "", "filesystem backend root directory (default: ./data, env: S3PROXY_STORAGE_PATH)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: info, env: S3PROXY_LOG_LEVEL)")
	flags.String("log-format", "", "log format: text, json (default: json when env is prod, env: S3PROXY_LOG_FORMAT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
