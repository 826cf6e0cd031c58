package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"

	"tcr/internal/collection"
	"tcr/internal/config"
	"tcr/internal/domain"
)

// ClassRunner executes the tests of one class
type ClassRunner interface {
	Run(ctx context.Context, class domain.TestClass, c *collection.TestCollection, workerID int) domain.TestResult
}

// Runner executes a single PHPUnit test class
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Run executes PHPUnit for a single test class
func (r *Runner) Run(ctx context.Context, class domain.TestClass, c *collection.TestCollection, workerID int) domain.TestResult {
	cmd := exec.CommandContext(ctx, r.config.GetPHPUnitPath(), r.Args(class)...)
	cmd.Env = append(os.Environ(), r.Env(c, workerID)...)
	cmd.Dir = r.config.ProjectPath

	start := time.Now()
	output, err := cmd.CombinedOutput()

	return domain.TestResult{
		TestPath:     class.FilePath,
		ClassName:    class.Name,
		Collection:   c.DisplayName(),
		CollectionID: c.ID().String(),
		WorkerID:     workerID,
		Success:      err == nil,
		Output:       string(output),
		Error:        err,
		Duration:     time.Since(start),
	}
}

// Args returns the PHPUnit arguments that select exactly one class
func (r *Runner) Args(class domain.TestClass) []string {
	filter := "^" + regexp.QuoteMeta(class.Name) + "::"
	return []string{"--filter", filter, class.FilePath}
}

// Env returns the variables that tell a PHPUnit process where it runs
func (r *Runner) Env(c *collection.TestCollection, workerID int) []string {
	return []string{
		fmt.Sprintf("TCR_WORKER=%d", workerID),
		fmt.Sprintf("TCR_COLLECTION=%s", c.DisplayName()),
		fmt.Sprintf("TCR_COLLECTION_ID=%s", c.ID()),
		fmt.Sprintf("DB_DATABASE=%s", r.config.GetDatabaseName(workerID)),
	}
}
