package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds connection and output settings for a migration run.
type Config struct {
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	OutputDir     string `yaml:"output_dir"`
	SourceCharset string `yaml:"source_charset"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/blogmig/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		Driver:        "mysql",
		OutputDir:     "_posts",
		SourceCharset: "utf-8",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Load ~/.config/blogmig/config.yaml if it exists
	if err := loadYAMLConfig(cfg); err != nil {
		// YAML config is optional, so we don't fail if it doesn't exist
	}

	// Override with environment variables
	if driver := os.Getenv("BLOGMIG_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if dsn := getEnvOrFile("BLOGMIG_DSN", "BLOGMIG_DSN_FILE"); dsn != "" {
		cfg.DSN = dsn
	}
	if out := os.Getenv("BLOGMIG_OUTPUT_DIR"); out != "" {
		cfg.OutputDir = out
	}
	if charset := os.Getenv("BLOGMIG_SOURCE_CHARSET"); charset != "" {
		cfg.SourceCharset = charset
	}

	return cfg, nil
}

// loadYAMLConfig loads configuration from ~/.config/blogmig/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "blogmig", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// getEnvOrFile gets an environment variable value, or reads it from a file
// if the _FILE variant is set
func getEnvOrFile(envVar, fileVar string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}

	if filePath := os.Getenv(fileVar); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			return string(data)
		}
	}

	return ""
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, just check cwd
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Clean paths for reliable comparison
	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		// Stop if we've reached home directory
		if dir == homeDir {
			break
		}

		// Get parent directory
		parent := filepath.Dir(dir)

		// Stop if we've reached the filesystem root
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
