package execution

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"tcr/internal/collection"
	"tcr/internal/discovery"
	"tcr/internal/domain"
)

// plan builds a discovery plan where every key of sizes is a collection
// holding that many classes.
func plan(t *testing.T, sizes map[string]int) *discovery.Plan {
	t.Helper()
	lookup := collection.StaticLookup{}
	var classes []domain.TestClass
	for name, n := range sizes {
		for i := 0; i < n; i++ {
			fqn := name + "\\Case" + string(rune('A'+i)) + "Test"
			lookup[fqn] = name
			classes = append(classes, domain.TestClass{Name: fqn, FilePath: "tests/" + fqn + ".php"})
		}
	}

	reg, err := collection.NewRegistry("/suite", collection.NewResolver(lookup))
	require.NoError(t, err)

	byName := make(map[string]*discovery.Group)
	var order []string
	for _, class := range classes {
		c, err := reg.Get(class)
		require.NoError(t, err)
		g, ok := byName[c.DisplayName()]
		if !ok {
			g = &discovery.Group{Collection: c}
			byName[c.DisplayName()] = g
		}
		g.Classes = append(g.Classes, class)
	}
	for _, c := range reg.Collections() {
		order = append(order, c.DisplayName())
	}

	p := &discovery.Plan{AssemblyID: reg.AssemblyID()}
	for _, name := range order {
		g := byName[name]
		sort.Slice(g.Classes, func(i, j int) bool { return g.Classes[i].Name < g.Classes[j].Name })
		p.Groups = append(p.Groups, *g)
	}
	return p
}
