package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tcr/internal/domain"
)

// NewOutput summarizes a run into the persisted output structure.
func NewOutput(run Run, now time.Time) *domain.TestResultsOutput {
	passed, failed := 0, 0
	summaries := make(map[string]*domain.CollectionSummary)
	for _, r := range run.Results {
		if r.Success {
			passed++
		} else {
			failed++
		}
		s, ok := summaries[r.CollectionID]
		if !ok {
			s = &domain.CollectionSummary{ID: r.CollectionID, Name: r.Collection}
			summaries[r.CollectionID] = s
		}
		s.Classes++
		if !r.Success {
			s.Failed++
		}
	}

	collections := make([]domain.CollectionSummary, 0, len(summaries))
	for _, s := range summaries {
		collections = append(collections, *s)
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Name < collections[j].Name
	})

	failures := run.Failures
	if failures == nil {
		failures = []domain.TestFailure{}
	}

	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			AssemblyID:        run.AssemblyID,
			TotalCollections:  run.Collections,
			TotalTestClasses:  len(run.Results),
			FailedTestClasses: failed,
			PassedTestClasses: passed,
			FailedTestCases:   len(run.Failures),
			Duration:          run.Duration.String(),
			DurationSeconds:   run.Duration.Seconds(),
			Workers:           run.Workers,
			Timestamp:         now.Format(time.RFC3339),
		},
		Collections: collections,
		Details:     failures,
	}
}

// Save writes the run to the configured JSON output file.
func (s *JSONStorage) Save(run Run) error {
	return s.SaveOutput(NewOutput(run, time.Now()))
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// FailedClasses returns the classes that failed in output.
func FailedClasses(output *domain.TestResultsOutput) map[string]struct{} {
	failed := make(map[string]struct{})
	if output == nil {
		return failed
	}
	for _, f := range output.Details {
		if f.ClassName != "" {
			failed[f.ClassName] = struct{}{}
		}
	}
	return failed
}
