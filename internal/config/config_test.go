package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "tests",
				},
			},
			expected: "/project/tests",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
		{
			name: "test path from config file",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    "tests/Unit",
			},
			expected: "/project/tests/Unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_GetDatabaseName(t *testing.T) {
	cfg := New()

	t.Run("default database name", func(t *testing.T) {
		name := cfg.GetDatabaseName(1)
		expected := "testing_1"
		if name != expected {
			t.Errorf("expected %s, got %s", expected, name)
		}
	})

	t.Run("custom prefix", func(t *testing.T) {
		custom := New()
		custom.DatabasePrefix = "shop"
		for i := 1; i <= 3; i++ {
			require.Equal(t, fmt.Sprintf("shop_%d", i), custom.GetDatabaseName(i))
		}
	})
}

func TestConfig_GetAssemblyID(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"
	cfg.TestPath = "tests"
	require.Equal(t, "/project/tests", cfg.GetAssemblyID())

	cfg.ApplyFlags(Flags{AssemblyID: "shop-suite"})
	require.Equal(t, "shop-suite", cfg.GetAssemblyID())
}

func TestConfig_GetDiscoveryWorkers(t *testing.T) {
	cfg := New()
	require.Equal(t, DefaultProcessors, cfg.GetDiscoveryWorkers())

	cfg.DiscoveryWorkers = 16
	require.Equal(t, 16, cfg.GetDiscoveryWorkers())

	cfg = &Config{}
	require.Equal(t, 1, cfg.GetDiscoveryWorkers())
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Processors != DefaultProcessors {
		t.Errorf("expected Processors %d, got %d", DefaultProcessors, cfg.Processors)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}

func TestLoad_FlagsOverride(t *testing.T) {
	cfg := Load(Flags{Processors: 8, NameFilter: "*User*"})
	require.Equal(t, 8, cfg.Processors)
	require.Equal(t, "*User*", cfg.Flags.NameFilter)

	cfg = Load(Flags{})
	require.Equal(t, DefaultProcessors, cfg.Processors)
}

func TestConfig_LoadFile(t *testing.T) {
	t.Run("missing default file is ignored", func(t *testing.T) {
		cfg := New()
		cfg.ProjectPath = t.TempDir()
		require.NoError(t, cfg.LoadFile(""))
		require.Equal(t, DefaultProcessors, cfg.Processors)
	})

	t.Run("reads .tcr.yaml from project", func(t *testing.T) {
		dir := t.TempDir()
		content := "test_path: tests\nprocessors: 6\nassembly_id: shop\ndatabase_prefix: shop_test\nignore:\n  - vendor\n  - legacy\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".tcr.yaml"), []byte(content), 0644))

		cfg := New()
		cfg.ProjectPath = dir
		require.NoError(t, cfg.LoadFile(""))
		require.Equal(t, "tests", cfg.TestPath)
		require.Equal(t, 6, cfg.Processors)
		require.Equal(t, "shop", cfg.GetAssemblyID())
		require.Equal(t, "shop_test_2", cfg.GetDatabaseName(2))
		require.Equal(t, []string{"vendor", "legacy"}, cfg.PathsToIgnore)
		require.Equal(t, DefaultTestSuffix, cfg.TestSuffix)
	})

	t.Run("explicit missing file fails", func(t *testing.T) {
		cfg := New()
		require.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
	})
}

func TestConfig_LoadEnv(t *testing.T) {
	dir := t.TempDir()
	// godotenv never overrides variables that are already set
	t.Setenv("DB_DATABASE_PREFIX", "unset")
	require.NoError(t, os.Unsetenv("DB_DATABASE_PREFIX"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_DATABASE_PREFIX=from_env\n"), 0644))

	cfg := New()
	cfg.ProjectPath = dir
	require.NoError(t, cfg.LoadEnv())
	require.Equal(t, "from_env_1", cfg.GetDatabaseName(1))

	missing := New()
	missing.ProjectPath = t.TempDir()
	require.NoError(t, missing.LoadEnv())
}
