package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryRoundTrip(t *testing.T) {
	mem := NewMemory()

	var missing testDoc
	found, err := mem.Load("docs", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, mem.Save("docs", testDoc{Name: "a", Count: 2}))

	var got testDoc
	found, err = mem.Load("docs", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testDoc{Name: "a", Count: 2}, got)
}

func TestMemoryCorruptDocument(t *testing.T) {
	mem := NewMemory()
	mem.Put("docs", []byte("{broken"))

	var got testDoc
	_, err := mem.Load("docs", &got)
	assert.Error(t, err)
}

func TestDBRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	var missing testDoc
	found, err := db.Load("docs", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Save("docs", testDoc{Name: "a", Count: 2}))
	require.NoError(t, db.Save("docs", testDoc{Name: "b", Count: 3}))

	var got testDoc
	found, err = db.Load("docs", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testDoc{Name: "b", Count: 3}, got, "save replaces the whole document")
}

func TestDBKindsAreIndependent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Save("alpha", testDoc{Name: "a"}))
	require.NoError(t, db.Save("beta", testDoc{Name: "b"}))

	var got testDoc
	found, err := db.Load("alpha", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a", got.Name)
}
