package domain

// TestFailure represents a failed test case
type TestFailure struct {
	TestName     string   `json:"test_name"`
	FilePath     string   `json:"file_path"`
	ClassName    string   `json:"class_name,omitempty"`
	Collection   string   `json:"collection,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
	ErrorDetails string   `json:"error_details"`
	StackTrace   []string `json:"stack_trace"`
	File         string   `json:"file"`
	Line         int      `json:"line"`
	Message      string   `json:"message"`
	Resolved     bool     `json:"resolved,omitempty"` // Marked as resolved in the failure viewer
}
