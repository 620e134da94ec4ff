package synclite

import (
	"math/big"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMarshalJSONObject(t *testing.T) {
	conn := openPeople(t)
	stmt, err := conn.Prepare("SELECT id, name, age FROM people WHERE name = ?")
	require.NoError(t, err)
	row, err := stmt.Get("alice")
	require.NoError(t, err)

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"alice","age":30}`, string(out), "column order survives")
}

func TestRowMarshalJSONArray(t *testing.T) {
	conn := openPeople(t)
	stmt, err := conn.Prepare("SELECT name, age FROM people WHERE name = ?")
	require.NoError(t, err)
	require.NoError(t, stmt.SetReturnArrays(true))
	row, err := stmt.Get("bob")
	require.NoError(t, err)

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `["bob",41]`, string(out))
}

func TestRowMarshalJSONWideInteger(t *testing.T) {
	row := &Row{
		cols: []string{"v"},
		vals: []any{new(big.Int).Lsh(big.NewInt(1), 60)},
	}
	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1152921504606846976}`, string(out),
		"wide integers stay number literals, not strings")
}

func TestRowMarshalJSONNullAndBlob(t *testing.T) {
	conn := openMemory(t)
	stmt, err := conn.Prepare("SELECT NULL AS a, x'01ff' AS b")
	require.NoError(t, err)
	row, err := stmt.Get()
	require.NoError(t, err)

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":"Af8="}`, string(out), "blobs serialize as base64")
}
