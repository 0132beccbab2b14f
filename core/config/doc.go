// Package config provides configuration management for the watchlist sync service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details for the local table destination
//   - Storage: S3/MinIO credentials for archiving sync reports
//   - Letterboxd: watchlist source settings (list URL, locale, concurrency)
//   - Notion: workspace destination settings (token, database id)
//   - Sync: sync run behavior (destination driver, report archiving)
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
