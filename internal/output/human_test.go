package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"aquaform/internal/core"
	"aquaform/internal/diff"
	"aquaform/internal/planner"
	"aquaform/internal/reconciler"
)

func TestPlanNoChanges(t *testing.T) {
	var buf bytes.Buffer
	Plan(&buf, nil)
	assert.Contains(t, buf.String(), "no changes detected")
}

func TestPlanRendersCreateUpdateDelete(t *testing.T) {
	var buf bytes.Buffer
	changes := []planner.PlannedChange{
		{Kind: planner.Create, Table: &core.Table{Name: "users"}},
		{
			Kind:  planner.Update,
			Table: &core.Table{Name: "posts"},
			Delta: &diff.Delta{AddColumns: []core.Column{{Name: "created_at", Type: "TIMESTAMPTZ", Nullable: true}}},
		},
		{Kind: planner.Delete, TableName: "legacy"},
	}
	Plan(&buf, changes)

	out := buf.String()
	assert.Contains(t, out, "table users")
	assert.Contains(t, out, "+ create new table")
	assert.Contains(t, out, "table posts")
	assert.Contains(t, out, `+ add column "created_at"`)
	assert.Contains(t, out, "table legacy")
	assert.Contains(t, out, "- remove table")
}

func TestApplyResultsReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	results := []reconciler.Result{
		{TableName: "users", Kind: planner.Create},
		{TableName: "posts", Kind: planner.Update, Err: errors.New("connection refused")},
	}
	ApplyResults(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "creating table users")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "updating table posts")
	assert.Contains(t, out, "failed: connection refused")
}
