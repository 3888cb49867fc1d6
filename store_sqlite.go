// store_sqlite.go - Embedded document store on sqlite
//
// Records live as JSON blobs in one table per collection; the implicit rowid
// doubles as the stable insertion sequence used for deterministic ordering.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db    *sql.DB
	table string
}

func newSQLiteStore(path, collection string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Several collections share the one database file, so writers wait out
	// each other's locks instead of surfacing SQLITE_BUSY.
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}
	// One connection per store keeps the pragmas applied to every statement.
	db.SetMaxOpenConns(1)

	table := "content_" + collection
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT NOT NULL,
		doc TEXT NOT NULL
	)`, table)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, table: table}, nil
}

func (s *sqliteStore) loadAll() ([]doc, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT rowid, doc FROM %s ORDER BY rowid", s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []doc
	for rows.Next() {
		var seq int64
		var raw string
		if err := rows.Scan(&seq, &raw); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		docs = append(docs, doc{seq: seq, rec: rec})
	}
	return docs, rows.Err()
}

func (s *sqliteStore) List(ordered bool) ([]Record, error) {
	docs, err := s.loadAll()
	if err != nil {
		return nil, wrapStoreErr("sqlite list", err)
	}
	if ordered {
		return sortDocs(docs), nil
	}
	return recordsOf(docs), nil
}

func (s *sqliteStore) Get(id string) (Record, error) {
	var raw string
	err := s.db.QueryRow(
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ? ORDER BY rowid LIMIT 1", s.table), id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, wrapStoreErr("sqlite get", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, wrapStoreErr("sqlite get", err)
	}
	return rec, nil
}

func (s *sqliteStore) InsertMany(recs []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapStoreErr("sqlite insert", err)
	}
	if err := insertTx(tx, s.table, recs); err != nil {
		tx.Rollback()
		return wrapStoreErr("sqlite insert", err)
	}
	return tx.Commit()
}

func insertTx(tx *sql.Tx, table string, recs []Record) error {
	for _, r := range recs {
		raw, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", table), r.ID(), string(raw),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Patch(id string, patch Record) (Record, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, wrapStoreErr("sqlite patch", err)
	}
	defer tx.Rollback()

	var seq int64
	var raw string
	err = tx.QueryRow(
		fmt.Sprintf("SELECT rowid, doc FROM %s WHERE id = ? ORDER BY rowid LIMIT 1", s.table), id,
	).Scan(&seq, &raw)
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, wrapStoreErr("sqlite patch", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, wrapStoreErr("sqlite patch", err)
	}
	rec.Merge(patch)

	merged, err := json.Marshal(rec)
	if err != nil {
		return nil, wrapStoreErr("sqlite patch", err)
	}
	if _, err := tx.Exec(
		fmt.Sprintf("UPDATE %s SET id = ?, doc = ? WHERE rowid = ?", s.table), rec.ID(), string(merged), seq,
	); err != nil {
		return nil, wrapStoreErr("sqlite patch", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr("sqlite patch", err)
	}
	return rec, nil
}

func (s *sqliteStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(fmt.Sprintf(
		"DELETE FROM %s WHERE rowid = (SELECT rowid FROM %s WHERE id = ? ORDER BY rowid LIMIT 1)",
		s.table, s.table,
	), id)
	if err != nil {
		return false, wrapStoreErr("sqlite delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapStoreErr("sqlite delete", err)
	}
	return n > 0, nil
}

func (s *sqliteStore) DeleteAll() error {
	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return wrapStoreErr("sqlite delete all", err)
	}
	return nil
}

func (s *sqliteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n); err != nil {
		return 0, wrapStoreErr("sqlite count", err)
	}
	return n, nil
}

// SeedDefaults runs the empty check and the inserts inside one transaction,
// so two first-readers racing each other cannot both seed.
func (s *sqliteStore) SeedDefaults(recs []Record) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, wrapStoreErr("sqlite seed", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n); err != nil {
		return false, wrapStoreErr("sqlite seed", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := insertTx(tx, s.table, recs); err != nil {
		return false, wrapStoreErr("sqlite seed", err)
	}
	if err := tx.Commit(); err != nil {
		return false, wrapStoreErr("sqlite seed", err)
	}
	return true, nil
}

func (s *sqliteStore) Reset(recs []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapStoreErr("sqlite reset", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return wrapStoreErr("sqlite reset", err)
	}
	if err := insertTx(tx, s.table, recs); err != nil {
		return wrapStoreErr("sqlite reset", err)
	}
	return tx.Commit()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
