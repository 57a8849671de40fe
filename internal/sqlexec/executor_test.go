package sqlexec

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripLimit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no clause",
			in:   "SELECT * FROM uml_temp WHERE company ILIKE '%SEM%'",
			want: "SELECT * FROM uml_temp WHERE company ILIKE '%SEM%'",
		},
		{
			name: "trailing limit",
			in:   "SELECT * FROM uml_temp ORDER BY date DESC LIMIT 100",
			want: "SELECT * FROM uml_temp ORDER BY date DESC",
		},
		{
			name: "trailing limit with offset",
			in:   "SELECT * FROM uml_temp LIMIT 50 OFFSET 100",
			want: "SELECT * FROM uml_temp",
		},
		{
			name: "case insensitive",
			in:   "SELECT * FROM uml_temp limit 10",
			want: "SELECT * FROM uml_temp",
		},
		{
			name: "trailing semicolon preserved",
			in:   "SELECT * FROM uml_temp LIMIT 100;",
			want: "SELECT * FROM uml_temp;",
		},
		{
			name: "limit inside subquery untouched",
			in:   "SELECT * FROM (SELECT * FROM uml_temp LIMIT 5) sub WHERE category = 'SOP'",
			want: "SELECT * FROM (SELECT * FROM uml_temp LIMIT 5) sub WHERE category = 'SOP'",
		},
		{
			name: "only the trailing clause removed",
			in:   "SELECT * FROM (SELECT * FROM uml_temp LIMIT 5) sub LIMIT 100",
			want: "SELECT * FROM (SELECT * FROM uml_temp LIMIT 5) sub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripLimit(tt.in))
		})
	}
}

func TestValidateReplay(t *testing.T) {
	assert.NoError(t, ValidateReplay("SELECT * FROM uml_temp"))
	assert.NoError(t, ValidateReplay("  select id from uml_temp  "))
	assert.NoError(t, ValidateReplay("\nSELECT 1"))

	assert.Error(t, ValidateReplay("DELETE FROM uml_temp"))
	assert.Error(t, ValidateReplay("UPDATE uml_temp SET company = 'x'"))
	assert.Error(t, ValidateReplay("DROP TABLE uml_temp"))
	assert.Error(t, ValidateReplay(""))
	assert.Error(t, ValidateReplay("WITH x AS (SELECT 1) SELECT * FROM x"))
}

func TestExecuteReplayRejectsWithoutConnecting(t *testing.T) {
	// An unreachable DSN proves rejection happens before any dial attempt.
	exec := New("host=invalid-host-that-never-resolves port=1 dbname=x user=x password=x", 0)

	res := exec.Execute(context.Background(), "DELETE FROM uml_temp", Options{Replay: true})
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Contains(t, strings.ToLower(res.Error), "only select")
	assert.Equal(t, "DELETE FROM uml_temp", res.SQL)
}

func shapedResult(rows int, desc string) *Result {
	res := &Result{
		Success: true,
		Columns: []string{"id", "description"},
	}
	for i := 0; i < rows; i++ {
		res.Rows = append(res.Rows, []any{i, desc})
	}
	res.Count = rows
	return res
}

func TestShapeCapsRowsOnBoundedPath(t *testing.T) {
	res := shapedResult(150, "short")

	records, returned := Shape(res, false)
	assert.Len(t, records, MaxReturnedRows)
	assert.Equal(t, MaxReturnedRows, returned)
	assert.Equal(t, 150, res.Count)
}

func TestShapeTruncatesDescriptionPreview(t *testing.T) {
	long := strings.Repeat("a", 250)
	res := shapedResult(1, long)

	records, _ := Shape(res, false)
	require.Len(t, records, 1)
	got, ok := records[0]["description"].(string)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("a", DescriptionPreviewLen)+"...", got)
}

func TestShapeKeepsShortDescriptionsIntact(t *testing.T) {
	exact := strings.Repeat("b", DescriptionPreviewLen)
	res := shapedResult(1, exact)

	records, _ := Shape(res, false)
	assert.Equal(t, exact, records[0]["description"])
}

func TestShapeUnboundedReturnsEverythingUntouched(t *testing.T) {
	long := strings.Repeat("c", 500)
	res := shapedResult(150, long)

	records, returned := Shape(res, true)
	assert.Len(t, records, 150)
	assert.Equal(t, 150, returned)
	assert.Equal(t, long, records[0]["description"])
}

func TestShapeEmptyResult(t *testing.T) {
	res := &Result{Success: true, Columns: []string{"id"}}

	records, returned := Shape(res, false)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Zero(t, returned)
}
