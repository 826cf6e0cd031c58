package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"tcr/internal/collection"
	"tcr/internal/config"
	"tcr/internal/discovery"
	"tcr/internal/domain"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTestFormatter(buf *bytes.Buffer) *Formatter {
	cfg := config.New()
	cfg.ProjectPath = "/app"
	return NewFormatter(cfg, buf)
}

func testPlan(t *testing.T) *discovery.Plan {
	t.Helper()
	reg, err := collection.NewRegistry("/app/tests", collection.NewResolver(collection.StaticLookup{
		`App\OrderTest`: "db",
		`App\UserTest`:  "db",
	}))
	require.NoError(t, err)

	order := domain.TestClass{Name: `App\OrderTest`, FilePath: "/app/tests/OrderTest.php", TestCases: []string{"testCreate"}}
	user := domain.TestClass{Name: `App\UserTest`, FilePath: "/app/tests/UserTest.php"}
	math := domain.TestClass{Name: `App\MathTest`, FilePath: "/app/tests/MathTest.php", TestCases: []string{"testAdd", "testSub"}}

	db, err := reg.Get(order)
	require.NoError(t, err)
	own, err := reg.Get(math)
	require.NoError(t, err)

	return &discovery.Plan{
		AssemblyID: reg.AssemblyID(),
		Groups: []discovery.Group{
			{Collection: own, Classes: []domain.TestClass{math}},
			{Collection: db, Classes: []domain.TestClass{order, user}},
		},
	}
}

func TestFormatter_PrintPlan(t *testing.T) {
	p := testPlan(t)

	t.Run("classes only", func(t *testing.T) {
		var buf bytes.Buffer
		newTestFormatter(&buf).PrintPlan(p, false, nil)
		out := buf.String()

		require.Contains(t, out, "Found 3 test class(es) in 2 collection(s)")
		require.Contains(t, out, `├── Test collection for App\MathTest  `+p.Groups[0].Collection.ID().String())
		require.Contains(t, out, `└── db`)
		require.Contains(t, out, `    ├── App\OrderTest  tests/OrderTest.php`)
		require.Contains(t, out, `    └── App\UserTest  tests/UserTest.php`)
		require.NotContains(t, out, "testCreate")
		require.NotContains(t, out, "[F]")
	})

	t.Run("test cases and failed marks", func(t *testing.T) {
		var buf bytes.Buffer
		failed := map[string]struct{}{`App\UserTest`: {}}
		newTestFormatter(&buf).PrintPlan(p, true, failed)
		out := buf.String()

		require.Contains(t, out, "testCreate")
		require.Contains(t, out, "testSub")
		require.Contains(t, out, `App\UserTest  tests/UserTest.php [F]`)
		require.Contains(t, out, "(no test cases found)")
	})
}

func TestFormatter_PrintFailureTree(t *testing.T) {
	var buf bytes.Buffer
	newTestFormatter(&buf).PrintFailureTree([]domain.TestFailure{
		{TestName: "testB", ClassName: "OrderTest", Collection: "db"},
		{TestName: "testA", ClassName: "OrderTest", Collection: "db"},
		{TestName: "testAdd", ClassName: "MathTest", Collection: ""},
	})

	want := strings.Join([]string{
		"├── (no collection)",
		"│   └── MathTest",
		"│       └── testAdd",
		"└── db",
		"    └── OrderTest",
		"        ├── testA",
		"        └── testB",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	t.Run("all passed", func(t *testing.T) {
		var buf bytes.Buffer
		newTestFormatter(&buf).PrintMetaStats(&domain.TestResultsOutput{
			Meta: domain.TestResultsMeta{TotalCollections: 2, TotalTestClasses: 3, PassedTestClasses: 3, Workers: 2},
		})
		require.Contains(t, buf.String(), "Test Collections")
		require.Contains(t, buf.String(), "All tests passed!")
	})

	t.Run("with failures", func(t *testing.T) {
		var buf bytes.Buffer
		newTestFormatter(&buf).PrintMetaStats(&domain.TestResultsOutput{
			Meta:    domain.TestResultsMeta{TotalTestClasses: 2, FailedTestClasses: 1, FailedTestCases: 1},
			Details: []domain.TestFailure{{TestName: "testA", ClassName: "OrderTest", Collection: "db"}},
		})
		require.Contains(t, buf.String(), "1 test class(es) failed with 1 test case failure(s)")
		require.Contains(t, buf.String(), "└── db")
	})
}

func TestFormatter_PrintFailures(t *testing.T) {
	var buf bytes.Buffer
	newTestFormatter(&buf).PrintFailures(&domain.TestResultsOutput{
		Details: []domain.TestFailure{
			{TestName: "testB", ClassName: "OrderTest", Collection: "db", File: "tests/OrderTest.php", Line: 12, Message: "Failed asserting that false is true."},
			{TestName: "testA", ClassName: "OrderTest", Collection: "db", Resolved: true},
		},
	})
	out := buf.String()

	require.Contains(t, out, "■ db")
	require.Less(t, strings.Index(out, "testA"), strings.Index(out, "testB"))
	require.Contains(t, out, "✓ OrderTest::testA")
	require.Contains(t, out, "✗ OrderTest::testB")
	require.Contains(t, out, "tests/OrderTest.php:12")
	require.Contains(t, out, "Failed asserting that false is true.")
}

func TestFormatter_PrintFailures_None(t *testing.T) {
	var buf bytes.Buffer
	newTestFormatter(&buf).PrintFailures(&domain.TestResultsOutput{})
	require.Contains(t, buf.String(), "No test failures found!")
}
