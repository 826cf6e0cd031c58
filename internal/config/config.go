package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string
	TestSuffix  string

	// AssemblyID identifies the test suite; collection IDs are derived from it.
	// Empty means the absolute test path.
	AssemblyID string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors       int
	DiscoveryWorkers int
	DatabasePrefix   string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors   int
	TestPath     string
	NameFilter   string
	TestCases    bool
	FailFast     bool
	OnlyFailed   bool
	OpenFailures bool
	AssemblyID   string
	Format       string
	Plain        bool
}

// fileConfig is the shape of .tcr.yaml
type fileConfig struct {
	TestPath         string   `mapstructure:"test_path"`
	TestSuffix       string   `mapstructure:"test_suffix"`
	AssemblyID       string   `mapstructure:"assembly_id"`
	Processors       int      `mapstructure:"processors"`
	DiscoveryWorkers int      `mapstructure:"discovery_workers"`
	DatabasePrefix   string   `mapstructure:"database_prefix"`
	OutputDir        string   `mapstructure:"output_dir"`
	OutputFile       string   `mapstructure:"output_file"`
	Ignore           []string `mapstructure:"ignore"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		TestSuffix:     DefaultTestSuffix,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
		DatabasePrefix: DefaultDatabasePrefix,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.ApplyFlags(flags)
	return cfg
}

// ApplyFlags stores flags and lets them override file and default settings
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.AssemblyID != "" {
		c.AssemblyID = flags.AssemblyID
	}
}

// LoadFile reads settings from a config file. An empty path looks for
// .tcr.{yaml,yml,json,toml} in the project directory; a missing file is not an error.
func (c *Config) LoadFile(path string) error {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(c.ProjectPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return fmt.Errorf("parse config %s: %w", v.ConfigFileUsed(), err)
	}
	c.apply(fc)
	return nil
}

func (c *Config) apply(fc fileConfig) {
	if fc.TestPath != "" {
		c.TestPath = fc.TestPath
	}
	if fc.TestSuffix != "" {
		c.TestSuffix = fc.TestSuffix
	}
	if fc.AssemblyID != "" {
		c.AssemblyID = fc.AssemblyID
	}
	if fc.Processors > 0 {
		c.Processors = fc.Processors
	}
	if fc.DiscoveryWorkers > 0 {
		c.DiscoveryWorkers = fc.DiscoveryWorkers
	}
	if fc.DatabasePrefix != "" {
		c.DatabasePrefix = fc.DatabasePrefix
	}
	if fc.OutputDir != "" {
		c.OutputJSONDir = fc.OutputDir
	}
	if fc.OutputFile != "" {
		c.OutputJSONFile = fc.OutputFile
	}
	if len(fc.Ignore) > 0 {
		c.PathsToIgnore = append([]string(nil), fc.Ignore...)
	}
}

// LoadEnv loads the project's .env file into the process environment and
// picks up DB_DATABASE_PREFIX. A missing .env file is ignored.
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	if prefix := os.Getenv("DB_DATABASE_PREFIX"); prefix != "" {
		c.DatabasePrefix = prefix
	}
	return nil
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	if filepath.IsAbs(c.TestPath) {
		return c.TestPath
	}
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetAssemblyID returns the identity of the test suite under discovery
func (c *Config) GetAssemblyID() string {
	if c.AssemblyID != "" {
		return c.AssemblyID
	}
	p := c.GetTestPath()
	if abs, err := filepath.Abs(p); err == nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(p)
}

// GetDiscoveryWorkers returns how many files are parsed concurrently
func (c *Config) GetDiscoveryWorkers() int {
	if c.DiscoveryWorkers > 0 {
		return c.DiscoveryWorkers
	}
	if c.Processors > 0 {
		return c.Processors
	}
	return 1
}

// GetOutputPath returns the full path to the output JSON file (under project so run and failures use the same file).
// Resolves to an absolute path so every command reads/writes the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetPHPUnitPath returns the path to PHPUnit binary
func (c *Config) GetPHPUnitPath() string {
	return filepath.Join(c.ProjectPath, "vendor", "bin", "phpunit")
}

// GetDatabaseName returns the database name for a worker
func (c *Config) GetDatabaseName(workerID int) string {
	prefix := c.DatabasePrefix
	if prefix == "" {
		prefix = DefaultDatabasePrefix
	}
	return fmt.Sprintf("%s_%d", prefix, workerID)
}
