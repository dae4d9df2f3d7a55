package main

import (
	"bytes"
	"testing"

	"inkwell/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	status := &database.SchemaStatus{
		Mode:            database.SchemaModeSQL,
		Environment:     "production",
		WillRunSQL:      true,
		AppliedVersions: []int{1},
		Tables: []database.TableState{
			{Name: "users", Exists: true, Rows: 2},
			{Name: "categories", Exists: true, Rows: 5},
			{Name: "posts", Exists: false},
		},
	}

	require.NoError(t, printStatus(&buf, status))
	out := buf.String()
	assert.Contains(t, out, "mode=sql env=production run_sql=true run_auto=false")
	assert.Regexp(t, `000001_init\s+applied\s+users, categories, posts`, out)
	assert.Regexp(t, `categories\s+true\s+5`, out)
	assert.Regexp(t, `posts\s+false\s+-`, out)
}
