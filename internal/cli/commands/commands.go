package commands

import (
	"github.com/spf13/cobra"

	"tcr/internal/cli"
	"tcr/internal/config"
	"tcr/internal/discovery"
	"tcr/internal/execution"
	"tcr/internal/parser"
	"tcr/internal/storage"
	"tcr/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run         *RunCommand
	List        *ListCommand
	Collections *CollectionsCommand
	Failures    *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	filter := discovery.NewFilter()
	classParser := discovery.NewParser()
	discoverer := NewDiscoverer(cfg, filter, classParser)
	runner := execution.NewRunner(cfg)
	scheduler := execution.NewCollectionScheduler()
	phpunitParser := parser.NewPHPUnitParser()
	executor := execution.NewWorkerPool(cfg, runner, scheduler, phpunitParser)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, nil)
	errorViewer := ui.NewErrorViewer(jsonStorage)

	return &Commands{
		Run:         NewRunCommand(cfg, discoverer, executor, phpunitParser, jsonStorage, formatter, errorViewer),
		List:        NewListCommand(cfg, discoverer, formatter, jsonStorage),
		Collections: NewCollectionsCommand(cfg, discoverer),
		Failures:    NewFailuresCommand(cfg, jsonStorage, errorViewer, formatter),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Load config file and .env, then let flags override them
	prepare := func(cmd *cobra.Command, args []string) error {
		if err := cfg.LoadFile(flags.ConfigFile); err != nil {
			return err
		}
		if err := cfg.LoadEnv(); err != nil {
			return err
		}
		cfg.ApplyFlags(flags.ToConfigFlags())
		return nil
	}
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Config file (default: .tcr.yaml in the project directory)")
	rootCmd.PersistentFlags().StringVar(&flags.AssemblyID, "assembly-id", "", "Identity of the test suite used to derive collection IDs (default: absolute test path)")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run PHPUnit tests in parallel, one worker per collection",
		Long:    "Discover test classes, group them into collections and execute collections in parallel. Classes in the same collection run one after another.",
		RunE:    c.Run.Execute,
		PreRunE: prepare,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of workers to use (default 4)")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first failing test class")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only classes that failed in the last run")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failure viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered test collections",
		Long:    "Scan test files and show how classes are grouped into collections without executing them",
		RunE:    c.List.Execute,
		PreRunE: prepare,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "Show test cases of every class")
	rootCmd.AddCommand(listCmd)

	// Collections command
	collectionsCmd := &cobra.Command{
		Use:     "collections",
		Short:   "Export the collection plan as JSON or YAML",
		Long:    "Discover test classes and write every collection with its ID and classes, for schedulers and worker processes",
		RunE:    c.Collections.Execute,
		PreRunE: prepare,
	}
	collectionsCmd.Flags().StringVarP(&flags.Format, "format", "o", "json", "Output format: json or yaml")
	collectionsCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern")
	collectionsCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	rootCmd.AddCommand(collectionsCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures of the last run",
		Long:    "Display test failures from the last run grouped by collection, interactively or as plain text",
		RunE:    c.Failures.Execute,
		PreRunE: prepare,
	}
	failuresCmd.Flags().BoolVar(&flags.Plain, "plain", false, "Print failures instead of opening the interactive viewer")
	rootCmd.AddCommand(failuresCmd)
}
