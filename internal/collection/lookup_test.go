package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tcr/internal/domain"
)

func TestAttributeLookup(t *testing.T) {
	tests := []struct {
		name      string
		attrs     []domain.Attribute
		expected  string
		declared  bool
		malformed bool
	}{
		{name: "no attributes"},
		{
			name:  "other attribute",
			attrs: []domain.Attribute{{Name: "Group", Args: []string{"'slow'"}}},
		},
		{
			name:     "single quoted",
			attrs:    []domain.Attribute{{Name: "Collection", Args: []string{"'Database'"}}},
			expected: "Database",
			declared: true,
		},
		{
			name:     "double quoted",
			attrs:    []domain.Attribute{{Name: "Collection", Args: []string{`"My Collection"`}}},
			expected: "My Collection",
			declared: true,
		},
		{
			name:     "escaped quote",
			attrs:    []domain.Attribute{{Name: "Collection", Args: []string{`'Bob\'s'`}}},
			expected: "Bob's",
			declared: true,
		},
		{
			name:     "unknown escape kept",
			attrs:    []domain.Attribute{{Name: "Collection", Args: []string{`'a\nb'`}}},
			expected: `a\nb`,
			declared: true,
		},
		{
			name:     "double quoted newline",
			attrs:    []domain.Attribute{{Name: "Collection", Args: []string{`"a\nb"`}}},
			expected: "a\nb",
			declared: true,
		},
		{
			name:     "first of several",
			attrs:    []domain.Attribute{{Name: "Collection", Args: []string{"'A'"}}, {Name: "Collection", Args: []string{"'B'"}}},
			expected: "A",
			declared: true,
		},
		{
			name:      "no argument",
			attrs:     []domain.Attribute{{Name: "Collection"}},
			malformed: true,
		},
		{
			name:      "two arguments",
			attrs:     []domain.Attribute{{Name: "Collection", Args: []string{"'A'", "'B'"}}},
			malformed: true,
		},
		{
			name:      "not a string",
			attrs:     []domain.Attribute{{Name: "Collection", Args: []string{"self::NAME"}}},
			malformed: true,
		},
		{
			name:      "mismatched quotes",
			attrs:     []domain.Attribute{{Name: "Collection", Args: []string{`'A"`}}},
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok, err := AttributeLookup{}.LookupCollectionName(domain.TestClass{Name: "type1", Attributes: tt.attrs})
			if tt.malformed {
				require.ErrorIs(t, err, ErrMalformedDeclaration)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.declared, ok)
			require.Equal(t, tt.expected, name)
		})
	}
}
