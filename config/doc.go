// Package config provides configuration loading and validation for s3proxy.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (S3PROXY_ prefix, plus the aliases below)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with S3PROXY_ prefix:
//   - server.port → S3PROXY_SERVER_PORT
//   - s3.endpoint → S3PROXY_S3_ENDPOINT
//   - storage.backend → S3PROXY_STORAGE_BACKEND
//
// The required keys also accept the plain names used by container deployments.
// The prefixed name wins when both are set:
//   - server.port → SERVER_PORT
//   - s3.region → AWS_REGION
//   - s3.bucket → BUCKET_NAME
//
// # Validation
//
// Configuration is validated using struct tags and a struct-level rule:
//   - Port is required and must be 1-65535
//   - Bucket is required
//   - Region is required for the s3 backend, Path for the filesystem backend
//   - Access key and secret key are set together or not at all
//   - Log level must be debug, info, warn, or error
package config
