package main

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStores builds one store per embedded driver so every behavior is
// checked against both.
func testStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := newSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "models")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": newMemoryStore(),
		"sqlite": sqlite,
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID()
	}
	return out
}

func TestStoreInsertAndList(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{
				{"id": "a", "title": "A"},
				{"id": "b", "title": "B"},
			}))

			n, err := st.Count()
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			recs, err := st.List(false)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ids(recs))
		})
	}
}

func TestStoreOrderedListDeterministic(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			// a has an explicit late order, b has none (falls back to its
			// insertion index 1), c sorts first.
			require.NoError(t, st.InsertMany([]Record{
				{"id": "a", "order": 5},
				{"id": "b"},
				{"id": "c", "order": 0},
			}))

			recs, err := st.List(true)
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "b", "a"}, ids(recs))
		})
	}
}

func TestStoreOrderedListTiesBrokenByInsertion(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{
				{"id": "x", "order": 1},
				{"id": "y", "order": 1},
				{"id": "z", "order": 1},
			}))

			// Same order values: insertion sequence decides, every time.
			for i := 0; i < 3; i++ {
				recs, err := st.List(true)
				require.NoError(t, err)
				assert.Equal(t, []string{"x", "y", "z"}, ids(recs))
			}
		})
	}
}

func TestStorePatchMergesFields(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{
				{"id": "x", "title": "T", "category": "C"},
			}))

			rec, err := st.Patch("x", Record{"title": "T2"})
			require.NoError(t, err)
			assert.Equal(t, "T2", rec["title"])
			assert.Equal(t, "C", rec["category"])

			// And the merge persisted, not just the return value.
			stored, err := st.Get("x")
			require.NoError(t, err)
			assert.Equal(t, "T2", stored["title"])
			assert.Equal(t, "C", stored["category"])
		})
	}
}

func TestStorePatchUnknownID(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Patch("ghost", Record{"title": "X"})
			assert.ErrorIs(t, err, errNotFound)
		})
	}
}

func TestStoreDeleteThenGet(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{{"id": "x"}}))

			removed, err := st.Delete("x")
			require.NoError(t, err)
			assert.True(t, removed)

			_, err = st.Get("x")
			assert.ErrorIs(t, err, errNotFound)

			// Deleting again reports nothing removed, without an error.
			removed, err = st.Delete("x")
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestStoreSeedDefaultsOnlyOnce(t *testing.T) {
	defaults := []Record{{"id": "one"}, {"id": "two"}}

	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			seeded, err := st.SeedDefaults(cloneAll(defaults))
			require.NoError(t, err)
			assert.True(t, seeded)

			seeded, err = st.SeedDefaults(cloneAll(defaults))
			require.NoError(t, err)
			assert.False(t, seeded)

			n, err := st.Count()
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestStoreSeedDefaultsSkipsNonEmpty(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{{"id": "existing"}}))

			seeded, err := st.SeedDefaults([]Record{{"id": "default"}})
			require.NoError(t, err)
			assert.False(t, seeded)

			recs, err := st.List(false)
			require.NoError(t, err)
			assert.Equal(t, []string{"existing"}, ids(recs))
		})
	}
}

func TestStoreReset(t *testing.T) {
	defaults := []Record{{"id": "d1"}, {"id": "d2"}}

	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{
				{"id": "admin-added-1"},
				{"id": "admin-added-2"},
				{"id": "admin-added-3"},
			}))

			require.NoError(t, st.Reset(cloneAll(defaults)))

			recs, err := st.List(false)
			require.NoError(t, err)
			assert.Equal(t, []string{"d1", "d2"}, ids(recs))
		})
	}
}

func TestStoreInsertManyDoesNotDeduplicate(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{{"id": "dup"}}))
			require.NoError(t, st.InsertMany([]Record{{"id": "dup"}}))

			n, err := st.Count()
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestStoreDeleteAll(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.InsertMany([]Record{{"id": "a"}, {"id": "b"}}))
			require.NoError(t, st.DeleteAll())

			n, err := st.Count()
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

// The sqlite driver keeps every collection in one database file, so writers
// from different collections must wait on each other's locks rather than
// fail busy.
func TestSQLiteConcurrentCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")

	designs, err := newSQLiteStore(path, "designs")
	require.NoError(t, err)
	t.Cleanup(func() { designs.Close() })

	models, err := newSQLiteStore(path, "practiceModels")
	require.NoError(t, err)
	t.Cleanup(func() { models.Close() })

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- designs.InsertMany([]Record{{"id": fmt.Sprintf("d-%d", i)}})
			errs <- models.InsertMany([]Record{{"id": fmt.Sprintf("m-%d", i)}})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, st := range []Store{designs, models} {
		n, err := st.Count()
		require.NoError(t, err)
		assert.Equal(t, 20, n)
	}
}
