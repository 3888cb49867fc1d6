// store_surreal.go - SurrealDB-backed Store
//
// Documents are kept in one table per collection. SurrealDB reserves the "id"
// field for its own record pointers, so the content identifier travels as
// "cid" on the wire and is renamed back on the way out, together with the
// internal insertion sequence "seq" that ordered listings rely on.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

type surrealStore struct {
	db      *surrealdb.DB
	table   string
	lastSeq atomic.Int64
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newSurrealStore(collection string) (*surrealStore, error) {
	url := envOr("SURREAL_URL", "ws://localhost:8000/rpc")
	ns := envOr("SURREAL_NS", "portfolio")
	dbName := envOr("SURREAL_DB", "portfolio")
	user := envOr("SURREAL_USER", "root")
	pass := envOr("SURREAL_PASS", "root")

	db, err := surrealdb.New(url)
	if err != nil {
		return nil, wrapStoreErr("surreal connect", err)
	}
	if _, err := db.Signin(map[string]any{"user": user, "pass": pass}); err != nil {
		return nil, wrapStoreErr("surreal signin", err)
	}
	if _, err := db.Use(ns, dbName); err != nil {
		return nil, wrapStoreErr("surreal use", err)
	}

	return &surrealStore{
		db:    db,
		table: "content_" + collection,
	}, nil
}

// nextSeq hands out strictly increasing sequence values even when several
// inserts land within the same nanosecond tick.
func (s *surrealStore) nextSeq() int64 {
	for {
		now := time.Now().UnixNano()
		last := s.lastSeq.Load()
		if now <= last {
			now = last + 1
		}
		if s.lastSeq.CompareAndSwap(last, now) {
			return now
		}
	}
}

// queryOutcomes unpacks a Query response into its per-statement outcomes,
// each a map with "status" and "result" keys.
func queryOutcomes(raw any) []map[string]any {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	outs := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			outs = append(outs, m)
		}
	}
	return outs
}

// outcomeRows extracts the record rows of one statement outcome.
func outcomeRows(out map[string]any) []map[string]any {
	items, ok := out["result"].([]any)
	if !ok {
		return nil
	}
	rows := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

// execute runs one batch of statements and fails if any of them did not
// come back with status OK.
func (s *surrealStore) execute(op, sql string) ([]map[string]any, error) {
	raw, err := s.db.Query(sql, nil)
	if err != nil {
		return nil, wrapStoreErr(op, err)
	}
	outs := queryOutcomes(raw)
	for _, out := range outs {
		if status, _ := out["status"].(string); status != "OK" {
			return outs, wrapStoreErr(op, fmt.Errorf("surrealdb status %s", status))
		}
	}
	return outs, nil
}

// firstRows is the common case of a single-statement query.
func firstRows(outs []map[string]any) []map[string]any {
	if len(outs) == 0 {
		return nil
	}
	return outcomeRows(outs[0])
}

func toWire(rec Record, seq int64) (string, error) {
	w := rec.Clone()
	w["cid"] = rec.ID()
	delete(w, "id")
	w["seq"] = seq
	raw, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func fromWire(row map[string]any) doc {
	rec := Record(row).Clone()
	var seq int64
	switch v := rec["seq"].(type) {
	case float64:
		seq = int64(v)
	case int64:
		seq = v
	}
	rec["id"] = rec["cid"]
	delete(rec, "cid")
	delete(rec, "seq")
	return doc{seq: seq, rec: rec}
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`) + `"`
}

func (s *surrealStore) List(ordered bool) ([]Record, error) {
	outs, err := s.execute("surreal list", fmt.Sprintf("SELECT * FROM %s;", s.table))
	if err != nil {
		return nil, err
	}
	rows := firstRows(outs)
	docs := make([]doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, fromWire(row))
	}
	if ordered {
		return sortDocs(docs), nil
	}
	// Unordered listings still come back in insertion order.
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })
	return recordsOf(docs), nil
}

func (s *surrealStore) Get(id string) (Record, error) {
	outs, err := s.execute("surreal get",
		fmt.Sprintf("SELECT * FROM %s WHERE cid = %s LIMIT 1;", s.table, quote(id)))
	if err != nil {
		return nil, err
	}
	rows := firstRows(outs)
	if len(rows) == 0 {
		return nil, errNotFound
	}
	return fromWire(rows[0]).rec, nil
}

func (s *surrealStore) InsertMany(recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	var b strings.Builder
	for _, r := range recs {
		content, err := toWire(r, s.nextSeq())
		if err != nil {
			return wrapStoreErr("surreal insert", err)
		}
		fmt.Fprintf(&b, "CREATE %s CONTENT %s;\n", s.table, content)
	}
	_, err := s.execute("surreal insert", b.String())
	return err
}

func (s *surrealStore) Patch(id string, patch Record) (Record, error) {
	content, err := json.Marshal(patch)
	if err != nil {
		return nil, wrapStoreErr("surreal patch", err)
	}
	outs, err := s.execute("surreal patch",
		fmt.Sprintf("UPDATE %s MERGE %s WHERE cid = %s;", s.table, string(content), quote(id)))
	if err != nil {
		return nil, err
	}
	rows := firstRows(outs)
	if len(rows) == 0 {
		return nil, errNotFound
	}
	return fromWire(rows[0]).rec, nil
}

func (s *surrealStore) Delete(id string) (bool, error) {
	if _, err := s.Get(id); errors.Is(err, errNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	_, err := s.execute("surreal delete",
		fmt.Sprintf("DELETE %s WHERE cid = %s;", s.table, quote(id)))
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *surrealStore) DeleteAll() error {
	_, err := s.execute("surreal delete all", fmt.Sprintf("DELETE %s;", s.table))
	return err
}

func (s *surrealStore) Count() (int, error) {
	outs, err := s.execute("surreal count",
		fmt.Sprintf("SELECT count() FROM %s GROUP ALL;", s.table))
	if err != nil {
		return 0, err
	}
	rows := firstRows(outs)
	if len(rows) == 0 {
		return 0, nil
	}
	if n, ok := rows[0]["count"].(float64); ok {
		return int(n), nil
	}
	return 0, nil
}

// SeedDefaults guards the whole seed behind an insert-if-absent sentinel
// record inside one transaction: if the sentinel already exists the CREATE
// fails and the transaction inserts nothing, so concurrent first reads
// cannot double-seed.
func (s *surrealStore) SeedDefaults(recs []Record) (bool, error) {
	var b strings.Builder
	b.WriteString("BEGIN TRANSACTION;\n")
	fmt.Fprintf(&b, "CREATE portfolio_meta:%s SET seeded = true;\n", s.table)
	for _, r := range recs {
		content, err := toWire(r, s.nextSeq())
		if err != nil {
			return false, wrapStoreErr("surreal seed", err)
		}
		fmt.Fprintf(&b, "CREATE %s CONTENT %s;\n", s.table, content)
	}
	b.WriteString("COMMIT TRANSACTION;\n")

	raw, err := s.db.Query(b.String(), nil)
	if err != nil {
		return false, wrapStoreErr("surreal seed", err)
	}
	// An ERR outcome means the sentinel already exists and the transaction
	// was cancelled: the collection was seeded before.
	for _, out := range queryOutcomes(raw) {
		if status, _ := out["status"].(string); status != "OK" {
			return false, nil
		}
	}
	return true, nil
}

func (s *surrealStore) Reset(recs []Record) error {
	var b strings.Builder
	b.WriteString("BEGIN TRANSACTION;\n")
	fmt.Fprintf(&b, "UPDATE portfolio_meta:%s SET seeded = true;\n", s.table)
	fmt.Fprintf(&b, "DELETE %s;\n", s.table)
	for _, r := range recs {
		content, err := toWire(r, s.nextSeq())
		if err != nil {
			return wrapStoreErr("surreal reset", err)
		}
		fmt.Fprintf(&b, "CREATE %s CONTENT %s;\n", s.table, content)
	}
	b.WriteString("COMMIT TRANSACTION;\n")
	_, err := s.execute("surreal reset", b.String())
	return err
}

func (s *surrealStore) Close() error {
	s.db.Close()
	return nil
}
