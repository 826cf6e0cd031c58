package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tcr/internal/config"
	"tcr/internal/domain"
	"tcr/internal/execution"
	"tcr/internal/parser"
	"tcr/internal/storage"
	"tcr/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config     *config.Config
	discoverer *Discoverer
	executor   *execution.WorkerPool
	parser     parser.Parser
	storage    storage.Storage
	formatter  *ui.Formatter
	viewer     ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	discoverer *Discoverer,
	executor *execution.WorkerPool,
	parser parser.Parser,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:     cfg,
		discoverer: discoverer,
		executor:   executor,
		parser:     parser,
		storage:    st,
		formatter:  formatter,
		viewer:     viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	plan, err := rc.discoverer.Discover(ctx)
	if err != nil {
		return err
	}

	if rc.config.Flags.OnlyFailed {
		last, err := rc.storage.Load()
		if err != nil {
			return fmt.Errorf("--failed needs a previous run: %w", err)
		}
		plan = onlyClasses(plan, storage.FailedClasses(last))
	}

	if plan.ClassCount() == 0 {
		color.Yellow("No tests to execute")
		return nil
	}
	color.Cyan("Running %d test class(es) in %d collection(s) on %d worker(s)", plan.ClassCount(), len(plan.Groups), rc.config.Processors)

	rc.executor.SetProgress(ui.NewProgressBar(plan.ClassCount()))
	results, duration, err := rc.executor.ExecuteWithOptions(ctx, plan, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	var failures []domain.TestFailure
	for _, result := range results {
		if !result.Success {
			failures = append(failures, rc.parser.ParseFailure(result)...)
		}
	}
	ui.SortFailures(failures)

	run := storage.Run{
		AssemblyID:  plan.AssemblyID,
		Collections: len(plan.Groups),
		Results:     results,
		Failures:    failures,
		Duration:    duration,
		Workers:     rc.config.Processors,
	}
	if err := rc.storage.Save(run); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	output, err := rc.storage.Load()
	if err != nil {
		return err
	}
	rc.formatter.PrintMetaStats(output)

	if len(failures) > 0 && rc.config.Flags.OpenFailures {
		return rc.viewer.View(output)
	}
	return nil
}
