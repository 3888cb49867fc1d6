// store.go - Storage abstraction over the content collections
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
)

// Store is durable storage for one content collection. A single call is
// atomic; sequences of calls are not, except where noted. Every driver keeps
// an internal insertion sequence per record so that ordered listings are
// deterministic even when order values collide or are missing; that sequence
// never leaks into the records it returns.
type Store interface {
	// List returns every record. With ordered=true the result is sorted
	// ascending by the order field (records without one fall back to their
	// insertion index), ties broken by insertion sequence.
	List(ordered bool) ([]Record, error)
	Get(id string) (Record, error)
	// InsertMany appends records as given. It does not deduplicate by id;
	// that is the caller's lookout.
	InsertMany(recs []Record) error
	// Patch merges patch into the record matching id and returns the
	// post-merge record, or errNotFound.
	Patch(id string, patch Record) (Record, error)
	// Delete reports whether a record was actually removed.
	Delete(id string) (bool, error)
	DeleteAll() error
	Count() (int, error)
	// SeedDefaults inserts recs only if the collection is empty, as one
	// guarded operation per driver (lock, transaction or sentinel record).
	// Returns true when the seed was applied.
	SeedDefaults(recs []Record) (bool, error)
	// Reset replaces the entire collection with recs in a single
	// transaction where the driver supports one.
	Reset(recs []Record) error
	Close() error
}

// doc pairs a record with its driver-assigned insertion sequence. Drivers
// sort through sortDocs so all of them order identically.
type doc struct {
	seq int64
	rec Record
}

func sortDocs(docs []doc) []Record {
	// Insertion index is the fallback order for records that never went
	// through a reorder, so compute it from the sequence ranking first.
	ranked := make([]doc, len(docs))
	copy(ranked, docs)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].seq < ranked[j].seq })
	fallback := make(map[int64]int, len(ranked))
	for i, d := range ranked {
		fallback[d.seq] = i
	}

	effective := func(d doc) int {
		if o, ok := d.rec.OrderValue(); ok {
			return o
		}
		return fallback[d.seq]
	}

	sorted := make([]doc, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := effective(sorted[i]), effective(sorted[j])
		if oi != oj {
			return oi < oj
		}
		return sorted[i].seq < sorted[j].seq
	})

	out := make([]Record, len(sorted))
	for i, d := range sorted {
		out[i] = d.rec
	}
	return out
}

func recordsOf(docs []doc) []Record {
	out := make([]Record, len(docs))
	for i, d := range docs {
		out[i] = d.rec
	}
	return out
}

// openStore picks a storage driver from STORE_DRIVER: "surreal" talks to a
// SurrealDB instance, "memory" keeps everything in-process, anything else
// lands on the embedded sqlite file.
func openStore(collection string) Store {
	switch os.Getenv("STORE_DRIVER") {
	case "surreal":
		st, err := newSurrealStore(collection)
		if err != nil {
			log.Fatalf("open surrealdb store %s: %v", collection, err)
		}
		return st
	case "memory":
		return newMemoryStore()
	default:
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "portfolio.db"
		}
		st, err := newSQLiteStore(path, collection)
		if err != nil {
			log.Fatalf("open sqlite store %s: %v", collection, err)
		}
		return st
	}
}

func wrapStoreErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
