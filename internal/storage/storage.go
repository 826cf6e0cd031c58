package storage

import (
	"time"

	"tcr/internal/config"
	"tcr/internal/domain"
)

// Storage persists and loads test run results (e.g. for the failure viewer).
type Storage interface {
	Save(run Run) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// Run is everything a finished run reports.
type Run struct {
	AssemblyID  string
	Collections int
	Results     []domain.TestResult
	Failures    []domain.TestFailure
	Duration    time.Duration
	Workers     int
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
