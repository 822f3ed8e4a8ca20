package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfig loads and validates the cache backend settings only.
func cacheConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ValidateBackend(viper.GetString("cache-backend"), viper.GetString("cache-db-connect"))
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = viper.GetString("cache-db-connect")
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations and opens the store.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := cacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheConfigWrapper validates cache settings without opening the store.
func cacheConfigWrapper(_ *cobra.Command, _ []string) error {
	return cacheConfig()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by report commands. No input file is needed.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the normalized readings cache (improves performance)",
	Long: `Manage the cache of normalized readings that speeds up repeated reports.

Caudal caches the parsed and cleaned readings of each input file, keyed by the
file's content and worksheet. Re-running a report on an unchanged file skips
spreadsheet parsing entirely.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run schema migrations on the cache database

Examples:
  # Check cache status
  caudal cache status

  # Clear cache
  caudal cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached readings",
	Long: `Delete all cached readings from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  caudal cache clear

  # Clear MySQL cache (set connection string via env variable)
  CAUDAL_CACHE_BACKEND=mysql CAUDAL_CACHE_DB_CONNECT="..." caudal cache clear`,
	PreRunE: cacheConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, connection state, entry count, entry timestamps
and approximate size of the readings cache.

Examples:
  # Check cache status
  caudal cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSeriesStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("caching is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd runs database migrations for the cache store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the readings cache.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  caudal cache migrate

  # Migrate to specific version
  caudal cache migrate --target-version 1

  # Rollback all migrations
  caudal cache migrate --target-version 0`,
	PreRunE: cacheConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCache(os.Stdout, cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
