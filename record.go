// record.go - Content record shape shared by designs and practice models
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a single content entry: a flat field map keyed by its "id" field.
// Domain fields (title, image, viewer link, ...) are opaque to the store and
// services; only "id", "order" and "visible" carry meaning here.
type Record map[string]any

var errNotFound = errors.New("record not found")

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// OrderValue returns the display order if the record carries one. JSON
// decoding hands numbers back as float64, so both int and float forms count.
func (r Record) OrderValue() (int, bool) {
	switch v := r["order"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Visible reports whether the record should appear on public pages. Records
// are visible unless explicitly soft-hidden with visible=false.
func (r Record) Visible() bool {
	v, ok := r["visible"].(bool)
	return !ok || v
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies every field of patch over the receiver. Fields absent from the
// patch are left untouched, matching partial-update semantics.
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		r[k] = v
	}
}

// newContentID builds a fresh identifier for an admin-created record. The
// original scheme was "<prefix>-<epochMillis>" alone; the random suffix keeps
// two creates within the same millisecond from colliding.
func newContentID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}
