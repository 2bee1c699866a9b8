package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realmgov/registry/kv"
)

func TestLevelDB(t *testing.T) {
	persisted, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	assert.NoError(t, err)
	defer persisted.Close()

	mem, err := NewMem()
	assert.NoError(t, err)
	defer mem.Close()

	var (
		key        = []byte("123")
		value      = []byte("456")
		invalidKey = []byte("abc")
	)

	for _, db := range []*LevelDB{persisted, mem} {
		assert.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(invalidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBatch(t *testing.T) {
	db, err := NewMem()
	assert.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(t, batch.Put([]byte("123"), []byte("456")))
	assert.Equal(t, 1, batch.Len())
	assert.NoError(t, batch.Write())

	got, err := db.Get([]byte("123"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("456"), got)
}

func TestLevelDBIterator(t *testing.T) {
	db, err := NewMem()
	assert.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"a1", "a2", "b1"} {
		assert.NoError(t, db.Put([]byte(k), []byte("v")))
	}

	var keys []string
	it := db.NewIterator(kv.Range{From: []byte("a"), To: []byte("b")})
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"a1", "a2"}, keys)
}
