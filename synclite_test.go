package synclite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootOpen(t *testing.T) {
	conn, err := Open(InMemory, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Exec("CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)"))
	stmt, err := conn.Prepare("INSERT INTO kv (k, v) VALUES (?, ?)")
	require.NoError(t, err)
	res, err := stmt.Run("greeting", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changes)

	read, err := conn.Prepare("SELECT v FROM kv WHERE k = :k")
	require.NoError(t, err)
	row, err := read.Get(NamedArgs{":k": "greeting"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "hello", row.Index(0))
}

func TestRootKindOf(t *testing.T) {
	conn, err := Open(InMemory, nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	err = conn.Exec("SELECT 1")
	assert.Equal(t, KindNotOpen, KindOf(err))
}
