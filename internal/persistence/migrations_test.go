package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestRunMigrations_AppliesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_index.sql", "CREATE INDEX b")
	writeMigration(t, dir, "001_table.sql", "CREATE TABLE a")
	writeMigration(t, dir, "README.md", "not sql")

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX b")).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, RunMigrations(context.Background(), mock, dir, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_table.sql", "CREATE TABLE a")
	writeMigration(t, dir, "002_index.sql", "CREATE INDEX b")

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).WillReturnError(errors.New("boom"))

	err = RunMigrations(context.Background(), mock, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_table.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_MissingDir(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = RunMigrations(context.Background(), mock, filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	assert.Error(t, err)
}

func TestRunMigrations_RepoSchemaParses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS credentials").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, RunMigrations(context.Background(), mock, filepath.Join("..", "..", "migrations"), zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPing_NotConfigured(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))

	var p *Postgres
	assert.Error(t, p.Ping(context.Background()))
}
