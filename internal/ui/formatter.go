package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/fatih/color"

	"tcr/internal/config"
	"tcr/internal/discovery"
	"tcr/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
	faint  = color.New(color.Faint)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out (stdout when nil)
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	if out == nil {
		out = color.Output
	}
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

// PrintMetaStats displays the statistics of a finished run
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Test Collections", fmt.Sprint(meta.TotalCollections), white},
		{"Total Test Classes", fmt.Sprint(meta.TotalTestClasses), white},
		{"Passed Test Classes", fmt.Sprint(meta.PassedTestClasses), green},
		{"Failed Test Classes", fmt.Sprint(meta.FailedTestClasses), red},
		{"Failed Test Cases", fmt.Sprint(meta.FailedTestCases), red},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTestClasses == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d test class(es) failed with %d test case failure(s)\n", meta.FailedTestClasses, meta.FailedTestCases)
	fmt.Fprintln(f.out)
	f.PrintFailureTree(output.Details)
}

// PrintFailureTree prints failures grouped by collection, then by class
func (f *Formatter) PrintFailureTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	byCollection := make(map[string]map[string][]string)
	for _, failure := range failures {
		classes, ok := byCollection[failure.Collection]
		if !ok {
			classes = make(map[string][]string)
			byCollection[failure.Collection] = classes
		}
		classes[failure.ClassName] = append(classes[failure.ClassName], failure.TestName)
	}

	collections := sortedKeys(byCollection)
	for i, name := range collections {
		lastCollection := i == len(collections)-1
		if name == "" {
			name = "(no collection)"
		}
		cyan.Fprintf(f.out, "%s%s\n", branch(lastCollection), name)

		classes := byCollection[collections[i]]
		classNames := sortedKeys(classes)
		for j, class := range classNames {
			lastClass := j == len(classNames)-1
			indent := stem(lastCollection)
			yellow.Fprintf(f.out, "%s%s%s\n", indent, branch(lastClass), class)

			tests := classes[class]
			sort.Strings(tests)
			for k, test := range tests {
				red.Fprintf(f.out, "%s%s%s\n", indent+stem(lastClass), branch(k == len(tests)-1), test)
			}
		}
	}
}

// PrintPlan prints discovered collections with their classes, optionally with
// test cases. Classes in failedClasses (from the last run) are marked with [F].
func (f *Formatter) PrintPlan(plan *discovery.Plan, showTestCases bool, failedClasses map[string]struct{}) {
	green.Fprintf(f.out, "Found %d test class(es) in %d collection(s):\n\n", plan.ClassCount(), len(plan.Groups))

	for i, group := range plan.Groups {
		lastGroup := i == len(plan.Groups)-1
		cyan.Fprintf(f.out, "%s%s", branch(lastGroup), group.Collection.DisplayName())
		faint.Fprintf(f.out, "  %s\n", group.Collection.ID())

		for j, class := range group.Classes {
			lastClass := j == len(group.Classes)-1
			indent := stem(lastGroup)

			failMarker := ""
			if _, ok := failedClasses[class.Name]; ok {
				failMarker = " " + red.Sprint("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s  %s%s\n", indent, branch(lastClass), yellow.Sprint(class.Name), faint.Sprint(f.relative(class.FilePath)), failMarker)

			if !showTestCases {
				continue
			}
			if len(class.TestCases) == 0 {
				fmt.Fprintf(f.out, "%s%s%s\n", indent+stem(lastClass), branch(true), red.Sprint("(no test cases found)"))
				continue
			}
			for k, tc := range class.TestCases {
				fmt.Fprintf(f.out, "%s%s%s\n", indent+stem(lastClass), branch(k == len(class.TestCases)-1), tc)
			}
		}
	}
}

// relative returns path relative to the project for cleaner display
func (f *Formatter) relative(path string) string {
	if f.config == nil {
		return path
	}
	rel, err := filepath.Rel(f.config.ProjectPath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func stem(last bool) string {
	if last {
		return "    "
	}
	return "│   "
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
