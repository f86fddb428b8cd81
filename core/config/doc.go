// Package config provides configuration management for the toolkit.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (via godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into
// subsections:
//   - Feishu: open-platform app credentials and API host
//   - Storage: OSS/MinIO credentials and bucket settings
//   - Log: logging level and format
//
// Environment variables map to nested keys with underscores, e.g.
// FEISHU_APP_ID -> feishu.app_id, STORAGE_BUCKET -> storage.bucket.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := feishu.NewClient(cfg.Feishu, logger)
package config
