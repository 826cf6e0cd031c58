package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tcr/internal/config"
	"tcr/internal/storage"
	"tcr/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config     *config.Config
	discoverer *Discoverer
	formatter  *ui.Formatter
	storage    storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	discoverer *Discoverer,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:     cfg,
		discoverer: discoverer,
		formatter:  formatter,
		storage:    st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	plan, err := lc.discoverer.Discover(cmd.Context())
	if plan == nil {
		return err
	}

	if plan.ClassCount() == 0 {
		color.Yellow("No tests found")
		return err
	}

	var failed map[string]struct{}
	if last, loadErr := lc.storage.Load(); loadErr == nil {
		failed = storage.FailedClasses(last)
	}

	lc.formatter.PrintPlan(plan, lc.config.Flags.TestCases, failed)
	return err
}
