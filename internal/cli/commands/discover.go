package commands

import (
	"context"
	"fmt"

	"tcr/internal/collection"
	"tcr/internal/config"
	"tcr/internal/discovery"
	"tcr/internal/domain"
)

// Discoverer runs one discovery session over the configured test path
type Discoverer struct {
	config *config.Config
	filter *discovery.Filter
	parser *discovery.Parser
}

// NewDiscoverer creates a new Discoverer
func NewDiscoverer(cfg *config.Config, filter *discovery.Filter, parser *discovery.Parser) *Discoverer {
	return &Discoverer{
		config: cfg,
		filter: filter,
		parser: parser,
	}
}

// Discover scans, filters and groups test classes. Every call uses a fresh
// registry scoped to the current assembly, and a scanner built from the
// settings loaded at that point.
func (d *Discoverer) Discover(ctx context.Context) (*discovery.Plan, error) {
	scanner := discovery.NewScanner(d.config.PathsToIgnore).WithSuffix(d.config.TestSuffix)
	files, err := scanner.Scan(d.config.GetTestPath())
	if err != nil {
		return nil, err
	}
	files = d.filter.FilterByName(files, d.config.Flags.NameFilter)

	registry, err := collection.NewRegistry(d.config.GetAssemblyID(), collection.NewResolver(collection.AttributeLookup{}))
	if err != nil {
		return nil, fmt.Errorf("create collection registry: %w", err)
	}

	session := discovery.NewSession(registry, d.parser, d.config.GetDiscoveryWorkers())
	plan, err := session.Discover(ctx, files)
	if err != nil {
		return plan, fmt.Errorf("discovery: %w", err)
	}
	return plan, nil
}

// onlyClasses keeps the classes in keep, dropping collections left empty
func onlyClasses(plan *discovery.Plan, keep map[string]struct{}) *discovery.Plan {
	filtered := &discovery.Plan{AssemblyID: plan.AssemblyID}
	for _, g := range plan.Groups {
		var classes []domain.TestClass
		for _, c := range g.Classes {
			if _, ok := keep[c.Name]; ok {
				classes = append(classes, c)
			}
		}
		if len(classes) > 0 {
			filtered.Groups = append(filtered.Groups, discovery.Group{Collection: g.Collection, Classes: classes})
		}
	}
	return filtered
}
