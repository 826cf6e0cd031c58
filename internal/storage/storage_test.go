package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tcr/internal/collection"
	"tcr/internal/config"
	"tcr/internal/discovery"
	"tcr/internal/domain"
)

func sampleRun() Run {
	return Run{
		AssemblyID:  "/suite",
		Collections: 2,
		Results: []domain.TestResult{
			{ClassName: "UserTest", Collection: "db", CollectionID: "id-db", Success: true},
			{ClassName: "OrderTest", Collection: "db", CollectionID: "id-db", Success: false, Error: errors.New("exit status 1")},
			{ClassName: "MathTest", Collection: "Test collection for MathTest", CollectionID: "id-math", Success: true},
		},
		Failures: []domain.TestFailure{
			{TestName: "testCreate", ClassName: "OrderTest", Collection: "db", CollectionID: "id-db"},
			{TestName: "testCancel", ClassName: "OrderTest", Collection: "db", CollectionID: "id-db"},
		},
		Duration: 1500 * time.Millisecond,
		Workers:  4,
	}
}

func TestNewOutput(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := NewOutput(sampleRun(), now)

	require.Equal(t, "/suite", out.Meta.AssemblyID)
	require.Equal(t, 2, out.Meta.TotalCollections)
	require.Equal(t, 3, out.Meta.TotalTestClasses)
	require.Equal(t, 2, out.Meta.PassedTestClasses)
	require.Equal(t, 1, out.Meta.FailedTestClasses)
	require.Equal(t, 2, out.Meta.FailedTestCases)
	require.Equal(t, 1.5, out.Meta.DurationSeconds)
	require.Equal(t, "2024-05-01T12:00:00Z", out.Meta.Timestamp)

	require.Equal(t, []domain.CollectionSummary{
		{ID: "id-math", Name: "Test collection for MathTest", Classes: 1, Failed: 0},
		{ID: "id-db", Name: "db", Classes: 2, Failed: 1},
	}, out.Collections)
	require.Len(t, out.Details, 2)
}

func TestNewOutput_NoFailures(t *testing.T) {
	out := NewOutput(Run{AssemblyID: "/suite"}, time.Now())
	require.NotNil(t, out.Details)
	require.Empty(t, out.Details)
	require.Empty(t, out.Collections)
}

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	st := NewJSONStorage(cfg)

	_, err := st.Load()
	require.Error(t, err)

	require.NoError(t, st.Save(sampleRun()))

	out, err := st.Load()
	require.NoError(t, err)
	require.Equal(t, 3, out.Meta.TotalTestClasses)
	require.Len(t, out.Details, 2)

	out.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(out))

	again, err := st.Load()
	require.NoError(t, err)
	require.True(t, again.Details[0].Resolved)
	require.False(t, again.Details[1].Resolved)
}

func TestFailedClasses(t *testing.T) {
	require.Empty(t, FailedClasses(nil))

	out := NewOutput(sampleRun(), time.Now())
	require.Equal(t, map[string]struct{}{"OrderTest": {}}, FailedClasses(out))
}

func testPlan(t *testing.T) *discovery.Plan {
	t.Helper()
	reg, err := collection.NewRegistry("/suite", collection.NewResolver(collection.StaticLookup{"UserTest": "db"}))
	require.NoError(t, err)

	user := domain.TestClass{Name: "UserTest", FilePath: "tests/UserTest.php", TestCases: []string{"testCreate"}}
	db, err := reg.Get(user)
	require.NoError(t, err)

	return &discovery.Plan{
		AssemblyID: "/suite",
		Groups:     []discovery.Group{{Collection: db, Classes: []domain.TestClass{user}}},
	}
}

func TestExportPlan(t *testing.T) {
	p := testPlan(t)
	id := p.Groups[0].Collection.ID().String()
	want := PlanDocument{
		AssemblyID: "/suite",
		Collections: []PlanCollection{{
			ID:      id,
			Name:    "db",
			Classes: []PlanClass{{Name: "UserTest", File: "tests/UserTest.php", TestCases: []string{"testCreate"}}},
		}},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ExportPlan(&buf, p, "json"))
		var got PlanDocument
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Equal(t, want, got)
		require.Contains(t, buf.String(), `"assembly_id": "/suite"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ExportPlan(&buf, p, "yaml"))
		var got PlanDocument
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Equal(t, want, got)
		require.Contains(t, buf.String(), "assembly_id: /suite")
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		require.Error(t, ExportPlan(&buf, p, "xml"))
	})
}
