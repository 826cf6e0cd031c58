package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"tcr/internal/discovery"
)

// PlanDocument is the exported form of a discovery plan. Collection IDs are
// stable for a given assembly, so documents from separate processes can be
// matched by ID.
type PlanDocument struct {
	AssemblyID  string           `json:"assembly_id" yaml:"assembly_id"`
	Collections []PlanCollection `json:"collections" yaml:"collections"`
}

// PlanCollection is one collection in a PlanDocument.
type PlanCollection struct {
	ID      string      `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Classes []PlanClass `json:"classes" yaml:"classes"`
}

// PlanClass is one class in a PlanCollection.
type PlanClass struct {
	Name      string   `json:"name" yaml:"name"`
	File      string   `json:"file" yaml:"file"`
	TestCases []string `json:"test_cases,omitempty" yaml:"test_cases,omitempty"`
}

// NewPlanDocument converts a plan into its exported form.
func NewPlanDocument(plan *discovery.Plan) PlanDocument {
	doc := PlanDocument{AssemblyID: plan.AssemblyID, Collections: make([]PlanCollection, 0, len(plan.Groups))}
	for _, g := range plan.Groups {
		pc := PlanCollection{
			ID:      g.Collection.ID().String(),
			Name:    g.Collection.DisplayName(),
			Classes: make([]PlanClass, 0, len(g.Classes)),
		}
		for _, c := range g.Classes {
			pc.Classes = append(pc.Classes, PlanClass{Name: c.Name, File: c.FilePath, TestCases: c.TestCases})
		}
		doc.Collections = append(doc.Collections, pc)
	}
	return doc
}

// ExportPlan writes plan to w as "json" or "yaml".
func ExportPlan(w io.Writer, plan *discovery.Plan, format string) error {
	doc := NewPlanDocument(plan)
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported plan format %q (want json or yaml)", format)
	}
}
