package domain

import "time"

// TestResult represents the result of executing one test class
type TestResult struct {
	TestPath     string        // Path to the test file that was executed
	ClassName    string        // Fully-qualified class that was executed
	Collection   string        // Display name of the class's collection
	CollectionID string        // Identity token of the class's collection
	WorkerID     int           // Worker that ran the class
	Success      bool          // Whether the test passed
	Output       string        // Raw output from PHPUnit
	Error        error         // Error if execution failed
	Duration     time.Duration // Time taken to execute
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	AssemblyID        string  `json:"assembly_id"`
	TotalCollections  int     `json:"total_collections"`
	TotalTestClasses  int     `json:"total_test_classes"`
	FailedTestClasses int     `json:"failed_test_classes"`
	PassedTestClasses int     `json:"passed_test_classes"`
	FailedTestCases   int     `json:"failed_test_cases"`
	Duration          string  `json:"duration"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Workers           int     `json:"workers"`
	Timestamp         string  `json:"timestamp"`
}

// CollectionSummary is the per-collection outcome of a run
type CollectionSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Classes int    `json:"classes"`
	Failed  int    `json:"failed"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta        TestResultsMeta     `json:"meta"`
	Collections []CollectionSummary `json:"collections"`
	Details     []TestFailure       `json:"details"`
}
