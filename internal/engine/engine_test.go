package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPrepareStep(t *testing.T) {
	c, err := Open(":memory:", OpenReadWrite|OpenCreate)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)"))
	require.NoError(t, c.Exec("INSERT INTO t (name) VALUES ('a'), ('b')"))

	s, err := c.Prepare("SELECT id, name FROM t ORDER BY id")
	require.NoError(t, err)
	defer s.Finalize()

	row, err := s.Step()
	require.NoError(t, err)
	require.True(t, row)
	assert.Equal(t, int64(1), s.ColumnInt64(0))
	assert.Equal(t, "a", s.ColumnText(1))
	assert.Equal(t, TypeInteger, s.ColumnType(0))
	assert.Equal(t, "t", s.ColumnTableName(1))
	assert.Equal(t, "name", s.ColumnOriginName(1))
	assert.Equal(t, "main", s.ColumnDatabaseName(1))

	row, err = s.Step()
	require.NoError(t, err)
	require.True(t, row)
	row, err = s.Step()
	require.NoError(t, err)
	assert.False(t, row)
}

func TestPrepareEmptySQL(t *testing.T) {
	c, err := Open(":memory:", OpenReadWrite|OpenCreate)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Prepare("   -- nothing here")
	require.Error(t, err)
}

func TestCaptureErrorCarriesCodes(t *testing.T) {
	c, err := Open(":memory:", OpenReadWrite|OpenCreate)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)"))
	require.NoError(t, c.Exec("INSERT INTO t (id) VALUES (1)"))

	err = c.Exec("INSERT INTO t (id) VALUES (1)")
	require.Error(t, err)
	ee, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrConstraint, ee.Code)
	assert.GreaterOrEqual(t, ee.ExtendedCode, ee.Code)
	assert.Equal(t, "SQLITE_CONSTRAINT_PRIMARYKEY", ee.CodeName())
	assert.Zero(t, ee.Errno)
}

func TestOpenMissingDirectoryCarriesErrno(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"),
		OpenReadWrite|OpenCreate)
	require.Error(t, err)
	ee, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrCantOpen, ee.Code)
}

func TestBackup(t *testing.T) {
	src, err := Open(":memory:", OpenReadWrite|OpenCreate)
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, src.Exec("CREATE TABLE t (v TEXT); INSERT INTO t VALUES ('kept')"))

	path := filepath.Join(t.TempDir(), "copy.db")
	dst, err := Open(path, OpenReadWrite|OpenCreate)
	require.NoError(t, err)
	defer dst.Close()

	var calls int
	require.NoError(t, Backup(dst, "main", src, "main", 1, func(remaining, total int) {
		calls++
		assert.LessOrEqual(t, remaining, total)
	}))
	assert.Positive(t, calls)

	s, err := dst.Prepare("SELECT v FROM t")
	require.NoError(t, err)
	defer s.Finalize()
	row, err := s.Step()
	require.NoError(t, err)
	require.True(t, row)
	assert.Equal(t, "kept", s.ColumnText(0))
}
