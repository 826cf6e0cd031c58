package collection

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"tcr/internal/domain"
)

// DefaultNamePrefix is prepended to the fully-qualified class name of classes
// that do not declare a collection.
const DefaultNamePrefix = "Test collection for "

var (
	// ErrInvalidClass indicates a class reference without a usable fully-qualified name.
	ErrInvalidClass = errors.New("collection: invalid test class")
	// ErrMalformedDeclaration indicates a collection declaration that does not carry a name.
	ErrMalformedDeclaration = errors.New("collection: malformed collection declaration")
)

// NameLookup reads a declared collection name off a test class.
// ok is false when the class declares nothing.
type NameLookup interface {
	LookupCollectionName(class domain.TestClass) (name string, ok bool, err error)
}

// DefaultCollectionName returns the collection name of a class that declares none.
func DefaultCollectionName(fqn string) string {
	return DefaultNamePrefix + fqn
}

// Resolver determines the collection name of a test class.
type Resolver struct {
	lookup NameLookup
}

// NewResolver creates a Resolver backed by lookup. A nil lookup means no class
// declares a collection.
func NewResolver(lookup NameLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the declared collection name of class, or its default name.
func (r *Resolver) Resolve(class domain.TestClass) (string, error) {
	if err := validateClassName(class.Name); err != nil {
		return "", err
	}

	if r.lookup != nil {
		name, ok, err := r.lookup.LookupCollectionName(class)
		if err != nil {
			return "", fmt.Errorf("resolve collection for %s: %w", class.Name, err)
		}
		if ok {
			if name == "" {
				return "", fmt.Errorf("resolve collection for %s: %w: empty name", class.Name, ErrMalformedDeclaration)
			}
			return name, nil
		}
	}

	return DefaultCollectionName(class.Name), nil
}

func validateClassName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty fully-qualified name", ErrInvalidClass)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidClass, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidClass, name)
		}
	}
	return nil
}
