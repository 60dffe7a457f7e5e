package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactlog/internal/core/source"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/testkit"
)

func TestCopy_DirToPostgres(t *testing.T) {
	root := testkit.Exports(t, map[string]string{
		"acme/jira.csv":   "Issue key\nOPS-1\n",
		"acme/zapier.csv": "Task ID\nt1\n",
	})

	db := &fakeDB{}
	got, err := Copy(context.Background(), db, NewDir(root), "acme", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []source.App{source.Jira, source.Zapier}, got)

	require.Len(t, db.execs, 4)
	assert.Contains(t, db.execs[0], "create table if not exists impact_exports")
	assert.Equal(t, "set local statement_timeout = 5000", db.execs[1])
	assert.Contains(t, db.execs[2], "on conflict (project_id, source) do update")
}

func TestCopy_NoExports(t *testing.T) {
	root := testkit.Exports(t, map[string]string{"empty/": ""})

	db := &fakeDB{}
	_, err := Copy(context.Background(), db, NewDir(root), "empty", 0)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound), "got %v", err)
	assert.Empty(t, db.execs)
}

func TestPutExport_RejectsBadProject(t *testing.T) {
	err := PutExport(context.Background(), &fakeDB{}, "../etc", source.Jira, nil)
	e, ok := perr.As(err)
	require.True(t, ok)
	assert.Equal(t, "project", e.Field())
}
