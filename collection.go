// collection.go - CRUD, seeding, reset and reordering for one content type
package main

import (
	"errors"
	"log"
)

// collectionConfig fixes what varies between the two content types.
type collectionConfig struct {
	name          string   // store collection name
	prefix        string   // id prefix for admin-created records
	ordered       bool     // listings sorted by the order field
	defaults      []Record // curated seed set, also the reset target
	fieldDefaults Record   // applied to unset optional fields on create
}

// Collection is the service the admin dashboard and the public pages talk to.
type Collection struct {
	cfg   collectionConfig
	store Store
}

func newCollection(cfg collectionConfig, store Store) *Collection {
	return &Collection{cfg: cfg, store: store}
}

func (c *Collection) seedIfEmpty() error {
	seeded, err := c.store.SeedDefaults(cloneAll(c.cfg.defaults))
	if err != nil {
		return err
	}
	if seeded {
		log.Printf("Seeded %s with %d default records", c.cfg.name, len(c.cfg.defaults))
	}
	return nil
}

// Visible returns the publicly listed records in canonical order, seeding the
// collection with its defaults on first read.
func (c *Collection) Visible() ([]Record, error) {
	if err := c.seedIfEmpty(); err != nil {
		return nil, err
	}
	recs, err := c.store.List(c.cfg.ordered)
	if err != nil {
		return nil, err
	}
	visible := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.Visible() {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// All is the admin view: every record, hidden ones included.
func (c *Collection) All() ([]Record, error) {
	if err := c.seedIfEmpty(); err != nil {
		return nil, err
	}
	return c.store.List(c.cfg.ordered)
}

func (c *Collection) Get(id string) (Record, error) {
	return c.store.Get(id)
}

// Create assigns a fresh id, fills unset optional fields with the type's
// defaults and stores the record.
func (c *Collection) Create(fields Record) (Record, error) {
	rec := fields.Clone()
	rec["id"] = newContentID(c.cfg.prefix)
	for k, v := range c.cfg.fieldDefaults {
		if cur, ok := rec[k]; !ok || isEmptyValue(cur) {
			rec[k] = v
		}
	}
	if err := c.store.InsertMany([]Record{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update merges fields into the record matching id. Fields not named in the
// patch keep their stored values.
func (c *Collection) Update(id string, fields Record) (Record, error) {
	patch := fields.Clone()
	delete(patch, "id") // the identifier is immutable after creation
	return c.store.Patch(id, patch)
}

func (c *Collection) Delete(id string) error {
	removed, err := c.store.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return errNotFound
	}
	return nil
}

// ResetToDefaults throws away every record of the collection and restores the
// curated default set, returning the new contents. Destructive and
// irreversible.
func (c *Collection) ResetToDefaults() ([]Record, error) {
	if err := c.store.Reset(cloneAll(c.cfg.defaults)); err != nil {
		return nil, err
	}
	return c.store.List(c.cfg.ordered)
}

// Reorder rewrites each listed record's order field to its position in
// orderedIds. Ids without a matching record are skipped, not failed; records
// missing from orderedIds keep whatever order they had. The returned count is
// the number of ids processed. Updates already applied when an error occurs
// stay applied; callers resynchronize by re-reading the list.
func (c *Collection) Reorder(orderedIds []string) (int, error) {
	for i, id := range orderedIds {
		if _, err := c.store.Patch(id, Record{"order": i}); err != nil {
			if errors.Is(err, errNotFound) {
				continue
			}
			return i, err
		}
	}
	return len(orderedIds), nil
}

func cloneAll(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}
