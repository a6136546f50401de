package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort           = "8080"
	defaultStoragePath    = "./data"
	defaultKVDBPath       = "notes.db"
	defaultIndexPath      = "notes.bleve"
	defaultLogLevel       = "info"
	defaultSearchDebounce = 300 * time.Millisecond
	defaultHistorySize    = 10
	defaultSessionTTL     = 30 * time.Minute
	defaultQueryCacheSize = 64
	defaultQueryCacheTTL  = time.Minute
)

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port", defaultPort)
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", "database.kvdb_path", defaultKVDBPath)
}

func (c *Config) GetIndexPath() string {
	return c.getString("INDEX_PATH", "database.index_path", defaultIndexPath)
}

// GetStoragePath is the directory both databases live in.
func (c *Config) GetStoragePath() string {
	return c.getString("STORAGE_PATH", "database.storage_path", defaultStoragePath)
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level", defaultLogLevel)
}

// GetSearchDebounce is the quiet period a session waits after the last query
// change before it evaluates the search.
func (c *Config) GetSearchDebounce() time.Duration {
	return c.getDuration("SEARCH_DEBOUNCE", "search.debounce", defaultSearchDebounce)
}

func (c *Config) GetHistorySize() int {
	return c.getInt("SEARCH_HISTORY_SIZE", "search.history_size", defaultHistorySize)
}

func (c *Config) GetSessionTTL() time.Duration {
	return c.getDuration("SESSION_TTL", "session.ttl", defaultSessionTTL)
}

func (c *Config) GetQueryCacheSize() int {
	return c.getInt("QUERY_CACHE_SIZE", "search.cache_size", defaultQueryCacheSize)
}

func (c *Config) GetQueryCacheTTL() time.Duration {
	return c.getDuration("QUERY_CACHE_TTL", "search.cache_ttl", defaultQueryCacheTTL)
}

// Each getter reads the environment variable first, then the config file key.
func (c *Config) getString(envKey, fileKey string, fallback string) string {
	for _, key := range []string{envKey, fileKey} {
		if value := c.config.GetString(key); len(value) > 0 {
			return value
		}
	}

	return fallback
}

func (c *Config) getDuration(envKey, fileKey string, fallback time.Duration) time.Duration {
	for _, key := range []string{envKey, fileKey} {
		if !c.config.IsSet(key) {
			continue
		}
		if d := c.config.GetDuration(key); d > 0 {
			return d
		}
	}

	return fallback
}

func (c *Config) getInt(envKey, fileKey string, fallback int) int {
	for _, key := range []string{envKey, fileKey} {
		if !c.config.IsSet(key) {
			continue
		}
		if n := c.config.GetInt(key); n > 0 {
			return n
		}
	}

	return fallback
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
