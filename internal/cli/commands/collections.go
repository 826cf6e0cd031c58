package commands

import (
	"github.com/spf13/cobra"

	"tcr/internal/config"
	"tcr/internal/storage"
)

// CollectionsCommand exports the collection plan for other tools
type CollectionsCommand struct {
	config     *config.Config
	discoverer *Discoverer
}

// NewCollectionsCommand creates a new CollectionsCommand
func NewCollectionsCommand(cfg *config.Config, discoverer *Discoverer) *CollectionsCommand {
	return &CollectionsCommand{
		config:     cfg,
		discoverer: discoverer,
	}
}

// Execute runs the command
func (cc *CollectionsCommand) Execute(cmd *cobra.Command, args []string) error {
	plan, err := cc.discoverer.Discover(cmd.Context())
	if err != nil {
		return err
	}
	return storage.ExportPlan(cmd.OutOrStdout(), plan, cc.config.Flags.Format)
}
