package collection

import (
	"fmt"
	"strings"

	"tcr/internal/domain"
)

// AttributeName is the attribute (or docblock tag) that declares a collection.
const AttributeName = "Collection"

// AttributeLookup reads the Collection attribute recorded on a class by the
// discovery parser. The attribute must carry exactly one string literal.
type AttributeLookup struct{}

// LookupCollectionName implements NameLookup.
func (AttributeLookup) LookupCollectionName(class domain.TestClass) (string, bool, error) {
	attr, ok := class.Attribute(AttributeName)
	if !ok {
		return "", false, nil
	}
	if len(attr.Args) != 1 {
		return "", false, fmt.Errorf("%w: %s on line %d takes exactly one argument, got %d",
			ErrMalformedDeclaration, AttributeName, attr.Line, len(attr.Args))
	}
	name, err := unquote(attr.Args[0])
	if err != nil {
		return "", false, fmt.Errorf("%w: %s on line %d: %v", ErrMalformedDeclaration, AttributeName, attr.Line, err)
	}
	return name, true, nil
}

// StaticLookup maps fully-qualified class names to declared collection names.
type StaticLookup map[string]string

// LookupCollectionName implements NameLookup.
func (s StaticLookup) LookupCollectionName(class domain.TestClass) (string, bool, error) {
	name, ok := s[class.Name]
	return name, ok, nil
}

// unquote decodes a PHP single- or double-quoted string literal.
func unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '\'' && lit[0] != '"') {
		return "", fmt.Errorf("argument %s is not a string literal", lit)
	}
	quote := lit[0]
	body := lit[1 : len(lit)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			if c == quote {
				return "", fmt.Errorf("argument %s has an unescaped quote", lit)
			}
			b.WriteByte(c)
			continue
		}
		next := body[i+1]
		switch {
		case next == quote || next == '\\':
			b.WriteByte(next)
			i++
		case quote == '"' && next == 'n':
			b.WriteByte('\n')
			i++
		case quote == '"' && next == 't':
			b.WriteByte('\t')
			i++
		case quote == '"' && next == '$':
			b.WriteByte('$')
			i++
		default:
			// PHP keeps unknown escapes as written.
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
