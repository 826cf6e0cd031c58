package parser

import (
	"regexp"
	"strconv"
	"strings"

	"tcr/internal/domain"
)

var (
	okPattern       = regexp.MustCompile(`OK\s*\(\s*(\d+)\s+tests?`)
	testsPattern    = regexp.MustCompile(`Tests:\s*(\d+)`)
	failuresPattern = regexp.MustCompile(`Failures:\s*(\d+)`)
	errorsPattern   = regexp.MustCompile(`Errors:\s*(\d+)`)
	failureHeader   = regexp.MustCompile(`^\d+\)\s+(\S+?)::(\S+)`)
	traceLine       = regexp.MustCompile(`^(\S+\.php):(\d+)$`)
)

// PHPUnitParser parses PHPUnit test output
type PHPUnitParser struct{}

// NewPHPUnitParser creates a new PHPUnitParser
func NewPHPUnitParser() *PHPUnitParser {
	return &PHPUnitParser{}
}

// ParseTestCounts extracts passed and failed test case counts from PHPUnit output.
// If the summary line is missing it falls back to one case per class.
func (p *PHPUnitParser) ParseTestCounts(result domain.TestResult) (passed, failed int) {
	output := result.Output

	// OK (N tests, ...) - all passed
	if m := okPattern.FindStringSubmatch(output); m != nil {
		total, _ := strconv.Atoi(m[1])
		return total, 0
	}

	// FAILURES! or ERRORS! - Tests: N, Assertions: ..., Failures: F, Errors: E
	total := firstInt(testsPattern, output)
	failed = firstInt(failuresPattern, output) + firstInt(errorsPattern, output)
	if total >= failed {
		passed = total - failed
	}
	if passed > 0 || failed > 0 {
		return passed, failed
	}

	if result.Success {
		return 1, 0
	}
	return 0, 1
}

func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// ParseFailure parses the failed test cases of one class from PHPUnit output.
// A failed run without recognizable failure blocks yields a single class-level failure.
func (p *PHPUnitParser) ParseFailure(result domain.TestResult) []domain.TestFailure {
	var failures []domain.TestFailure
	lines := strings.Split(strings.ReplaceAll(result.Output, "\r\n", "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		m := failureHeader.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		failure, next := p.parseFailureBlock(lines, i+1)
		failure.TestName = m[2]
		failure.ClassName = m[1]
		stamp(&failure, result)
		failures = append(failures, failure)
		i = next - 1
	}

	if len(failures) == 0 && !result.Success {
		failure := domain.TestFailure{
			TestName:   result.ClassName,
			ClassName:  result.ClassName,
			StackTrace: []string{},
			Message:    strings.TrimSpace(result.Output),
		}
		if failure.Message == "" && result.Error != nil {
			failure.Message = result.Error.Error()
		}
		stamp(&failure, result)
		failures = append(failures, failure)
	}

	return failures
}

func stamp(f *domain.TestFailure, result domain.TestResult) {
	f.FilePath = result.TestPath
	f.Collection = result.Collection
	f.CollectionID = result.CollectionID
	if f.ClassName == "" {
		f.ClassName = result.ClassName
	}
}

// parseFailureBlock reads the message, optional JSON details and stack trace that
// follow a failure header. It returns the index of the line that ends the block.
func (p *PHPUnitParser) parseFailureBlock(lines []string, start int) (domain.TestFailure, int) {
	failure := domain.TestFailure{StackTrace: []string{}}

	var messageLines, jsonLines []string
	inJSON := false
	braces := 0

	j := start
	for ; j < len(lines); j++ {
		line := lines[j]
		trimmed := strings.TrimSpace(line)

		if failureHeader.MatchString(trimmed) || strings.HasPrefix(trimmed, "FAILURES!") || strings.HasPrefix(trimmed, "ERRORS!") {
			break
		}

		if trimmed == "{" && !inJSON && failure.ErrorDetails == "" {
			inJSON = true
			braces = 1
			jsonLines = append(jsonLines, line)
			continue
		}
		if inJSON {
			jsonLines = append(jsonLines, line)
			braces += strings.Count(line, "{") - strings.Count(line, "}")
			if braces == 0 {
				failure.ErrorDetails = strings.Join(jsonLines, "\n")
				inJSON = false
			}
			continue
		}

		if m := traceLine.FindStringSubmatch(trimmed); m != nil {
			failure.StackTrace = append(failure.StackTrace, trimmed)
			if failure.File == "" && !strings.Contains(m[1], "/vendor/") {
				failure.File = m[1]
				failure.Line, _ = strconv.Atoi(m[2])
			}
			continue
		}

		if len(failure.StackTrace) > 0 {
			continue
		}
		if len(messageLines) == 0 && trimmed == "" {
			continue
		}
		messageLines = append(messageLines, line)
	}

	for len(messageLines) > 0 && strings.TrimSpace(messageLines[len(messageLines)-1]) == "" {
		messageLines = messageLines[:len(messageLines)-1]
	}
	failure.Message = strings.Join(messageLines, "\n")
	return failure, j
}
