package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"tcr/internal/domain"
)

var (
	namespacePattern = regexp.MustCompile(`^namespace\s+([A-Za-z_\\][\w\\]*)\s*[;{]`)
	classPattern     = regexp.MustCompile(`^((?:(?:abstract|final|readonly)\s+)*)class\s+([A-Za-z_]\w*)\b`)
	otherTypePattern = regexp.MustCompile(`^(?:interface|trait|enum)\s+\w+`)
	functionPattern  = regexp.MustCompile(`^(?:(?:public|protected|private|static|final|abstract)\s+)*function\s+(\w+)\s*\(`)
	collectionTag    = regexp.MustCompile(`@collection\b[ \t]*(.*)`)
	testTag          = regexp.MustCompile(`@test\b`)
)

// Parser reads test classes out of PHP source files
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseClasses returns every concrete class declared in a test file together
// with its declared attributes and test methods.
func (p *Parser) ParseClasses(filePath string) ([]domain.TestClass, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return p.Parse(filePath, content), nil
}

// FindTestCases finds all test cases in a test file
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	classes, err := p.ParseClasses(filePath)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var testCases []string
	for _, class := range classes {
		for _, tc := range class.TestCases {
			if !seen[tc] {
				seen[tc] = true
				testCases = append(testCases, tc)
			}
		}
	}
	sort.Strings(testCases)
	return testCases, nil
}

// metadata collected ahead of the declaration it belongs to
type pending struct {
	attrs  []domain.Attribute
	isTest bool
}

// Parse extracts test classes from PHP source.
func (p *Parser) Parse(filePath string, src []byte) []domain.TestClass {
	lines := strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n")

	var (
		namespace string
		classes   []domain.TestClass
		current   = -1
		meta      pending
	)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case line == "", strings.HasPrefix(line, "//"), strings.HasPrefix(line, "<?php"):
			continue
		case strings.HasPrefix(line, "#["):
			text, rest, end := collectAttribute(lines, i)
			for _, attr := range parseAttributeGroup(text, i+1) {
				if attr.Name == "Test" {
					meta.isTest = true
				}
				meta.attrs = append(meta.attrs, attr)
			}
			if rest != "" {
				lines[end] = rest
				i = end - 1
			} else {
				i = end
			}
			continue
		case strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "/*"):
			start := i
			block := line
			for !strings.Contains(block, "*/") && i+1 < len(lines) {
				i++
				block += "\n" + lines[i]
			}
			rest := ""
			if end := strings.Index(block, "*/"); end >= 0 {
				rest = strings.TrimSpace(block[end+2:])
				block = block[:end+2]
			}
			if strings.HasPrefix(line, "/**") {
				readDocblock(block, start+1, &meta)
			}
			if rest != "" {
				// Code after the comment on its closing line.
				lines[i] = rest
				i--
			}
			continue
		}

		if m := namespacePattern.FindStringSubmatch(line); m != nil {
			namespace = strings.Trim(m[1], `\`)
			meta = pending{}
			continue
		}

		if m := classPattern.FindStringSubmatch(line); m != nil {
			current = -1
			if !strings.Contains(m[1], "abstract") {
				classes = append(classes, domain.TestClass{
					Name:       qualify(namespace, m[2]),
					FilePath:   filePath,
					Attributes: meta.attrs,
				})
				current = len(classes) - 1
			}
			meta = pending{}
			continue
		}

		if otherTypePattern.MatchString(line) {
			current = -1
			meta = pending{}
			continue
		}

		if m := functionPattern.FindStringSubmatch(line); m != nil && current >= 0 {
			name := m[1]
			if strings.HasPrefix(name, "test") || meta.isTest {
				classes[current].TestCases = append(classes[current].TestCases, name)
			}
		}
		meta = pending{}
	}

	for i := range classes {
		classes[i].TestCases = dedupSorted(classes[i].TestCases)
	}
	return classes
}

func qualify(namespace, class string) string {
	if namespace == "" {
		return class
	}
	return namespace + `\` + class
}

func dedupSorted(names []string) []string {
	sort.Strings(names)
	out := names[:0]
	for i, n := range names {
		if i == 0 || n != names[i-1] {
			out = append(out, n)
		}
	}
	return out
}

// readDocblock records @collection and @test tags found in a docblock.
func readDocblock(block string, line int, meta *pending) {
	for offset, raw := range strings.Split(block, "\n") {
		text := strings.TrimSpace(raw)
		text = strings.TrimPrefix(text, "/**")
		text = strings.TrimSuffix(text, "*/")
		text = strings.TrimPrefix(strings.TrimSpace(text), "*")

		if testTag.MatchString(text) {
			meta.isTest = true
		}
		m := collectionTag.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		attr := domain.Attribute{Name: "Collection", Line: line + offset}
		if name := strings.TrimSpace(m[1]); name != "" {
			attr.Args = []string{quoteSingle(name)}
		}
		meta.attrs = append(meta.attrs, attr)
	}
}

// quoteSingle renders s as a PHP single-quoted literal.
func quoteSingle(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// collectAttribute gathers an attribute group starting at lines[start] until its
// closing bracket. It returns the group text, whatever follows the group on its
// last line, and the index of that line.
func collectAttribute(lines []string, start int) (text, rest string, end int) {
	var b strings.Builder
	depth := 0
	var quote byte

	for end = start; end < len(lines); end++ {
		line := lines[end]
		if end == start {
			line = strings.TrimSpace(line)
		} else {
			b.WriteByte('\n')
		}
		for j := 0; j < len(line); j++ {
			c := line[j]
			b.WriteByte(c)
			switch {
			case quote != 0:
				if c == '\\' && j+1 < len(line) {
					j++
					b.WriteByte(line[j])
				} else if c == quote {
					quote = 0
				}
			case c == '\'' || c == '"':
				quote = c
			case c == '[':
				depth++
			case c == ']':
				depth--
				if depth == 0 {
					return b.String(), strings.TrimSpace(line[j+1:]), end
				}
			}
		}
	}
	return b.String(), "", len(lines) - 1
}

// parseAttributeGroup splits "#[A('x'), B]" into its attributes.
func parseAttributeGroup(text string, line int) []domain.Attribute {
	text = strings.TrimPrefix(text, "#[")
	text = strings.TrimSuffix(text, "]")

	var attrs []domain.Attribute
	for _, item := range splitTopLevel(text) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, args := item, ""
		if open := strings.IndexByte(item, '('); open >= 0 {
			name = item[:open]
			args = strings.TrimSuffix(strings.TrimSpace(item[open+1:]), ")")
		}
		name = strings.TrimSpace(name)
		if k := strings.LastIndexByte(name, '\\'); k >= 0 {
			name = name[k+1:]
		}

		attr := domain.Attribute{Name: name, Line: line}
		for _, arg := range splitTopLevel(args) {
			arg = stripArgName(strings.TrimSpace(arg))
			if arg != "" {
				attr.Args = append(attr.Args, arg)
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// stripArgName removes a named-argument prefix such as "name: ".
func stripArgName(arg string) string {
	i := 0
	for i < len(arg) && (arg[i] == '_' || arg[i] >= 'a' && arg[i] <= 'z' || arg[i] >= 'A' && arg[i] <= 'Z' || i > 0 && arg[i] >= '0' && arg[i] <= '9') {
		i++
	}
	if i > 0 && i < len(arg) && arg[i] == ':' && (i+1 == len(arg) || arg[i+1] != ':') {
		return strings.TrimSpace(arg[i+1:])
	}
	return arg
}

// splitTopLevel splits s on commas outside quotes and brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}
