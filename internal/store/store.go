package store

import (
	"encoding/json"
	"sort"
)

// Store is the scoped key-value persistence contract the engine consumes.
// A scope is a named bucket of keys (one JSON document per scope in the
// file backend). Reads on missing or corrupt data degrade to "absent";
// the engine never observes a persistence failure as a distinct error.
type Store interface {
	// Get returns the raw value for key within scope, or false when the
	// scope or key is absent (or the backing document is unreadable).
	Get(scope, key string) (json.RawMessage, bool)

	// Keys returns the keys present in scope, sorted. Absent scopes
	// yield an empty slice.
	Keys(scope string) []string

	// Update runs fn against the scope's document under the scope's
	// lock and persists the result. No other Update or Get on the same
	// scope is interleaved between the read and the write. fn returning
	// an error aborts the update without persisting.
	Update(scope string, fn func(doc Doc) error) error

	// DeleteScope removes an entire scope document.
	DeleteScope(scope string) error
}

// Doc is a scope's decoded document: key to raw JSON value.
type Doc map[string]json.RawMessage

// SetValue marshals v under key. Marshal failures of plain value types
// do not happen in practice; the value is dropped if they do.
func (d Doc) SetValue(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	d[key] = raw
}

// Delete removes key from the document.
func (d Doc) Delete(key string) {
	delete(d, key)
}

// Has reports whether key is present.
func (d Doc) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Keys returns the document's keys, sorted.
func (d Doc) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value decodes the value under key into out. Returns false and leaves
// out untouched when the key is absent or the stored bytes don't parse.
func Value[T any](d Doc, key string, out *T) bool {
	raw, ok := d[key]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*out = v
	return true
}

// ValueOr decodes the value under key, falling back to def when the key
// is absent or corrupt. This is the caller-supplied-default read the
// engine uses everywhere.
func ValueOr[T any](d Doc, key string, def T) T {
	var v T
	if Value(d, key, &v) {
		return v
	}
	return def
}

// Get decodes a single value from a scope, falling back to def.
func Get[T any](s Store, scope, key string, def T) T {
	raw, ok := s.Get(scope, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Set writes a single value into a scope.
func Set(s Store, scope, key string, v any) error {
	return s.Update(scope, func(doc Doc) error {
		doc.SetValue(key, v)
		return nil
	})
}

// Delete removes a single key from a scope.
func Delete(s Store, scope, key string) error {
	return s.Update(scope, func(doc Doc) error {
		doc.Delete(key)
		return nil
	})
}
