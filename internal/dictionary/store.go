// Package dictionary holds the in-memory dialect dictionary. The store is
// written once per load cycle and read by the search engine afterwards;
// Load swaps in a fully built snapshot so readers never see a partial one.
package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

// utf8BOM is tolerated at the start of a payload, as browsers do when
// decoding a fetched JSON body.
var utf8BOM = []byte("\xEF\xBB\xBF")

type snapshot struct {
	index   map[string]int
	entries []domain.Entry
}

var emptySnapshot = &snapshot{index: map[string]int{}}

// Store owns the key -> records mapping.
type Store struct {
	snap atomic.Pointer[snapshot]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.snap.Store(emptySnapshot)
	return s
}

// Load parses payload as a JSON object of key -> array of records and
// replaces the current contents wholesale. On error the previous contents
// are kept and a *domain.MalformedDictionaryError is returned.
//
// Key order follows the document. A key repeated in the document keeps the
// position of its first occurrence and the value of its last one.
func (s *Store) Load(payload []byte) error {
	snap, err := parse(payload)
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	return nil
}

// Get returns the records for an exact key.
func (s *Store) Get(key string) (domain.Records, bool) {
	snap := s.snap.Load()
	i, ok := snap.index[key]
	if !ok {
		return nil, false
	}
	return snap.entries[i].Records, true
}

// Entries iterates all entries in insertion order. The sequence is bound to
// the contents at call time and may be ranged over any number of times.
func (s *Store) Entries() iter.Seq2[string, domain.Records] {
	snap := s.snap.Load()
	return func(yield func(string, domain.Records) bool) {
		for _, e := range snap.entries {
			if !yield(e.Key, e.Records) {
				return
			}
		}
	}
}

// Size returns the number of distinct keys.
func (s *Store) Size() int {
	return len(s.snap.Load().entries)
}

func parse(payload []byte) (*snapshot, error) {
	payload = bytes.TrimPrefix(payload, utf8BOM)
	if !gjson.ValidBytes(payload) {
		return nil, &domain.MalformedDictionaryError{Reason: "payload is not valid JSON"}
	}

	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil, domain.NewMalformedError(fmt.Sprintf("top level must be an object, got %s", describe(root)))
	}

	snap := &snapshot{index: make(map[string]int)}
	var bad error

	root.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if !value.IsArray() {
			bad = domain.NewMalformedError(fmt.Sprintf("value of %q must be an array, got %s", k, describe(value)))
			return false
		}

		recs := domain.Records{}
		value.ForEach(func(_, rec gjson.Result) bool {
			recs = append(recs, json.RawMessage(rec.Raw))
			return true
		})

		if i, dup := snap.index[k]; dup {
			snap.entries[i].Records = recs
			return true
		}
		snap.index[k] = len(snap.entries)
		snap.entries = append(snap.entries, domain.Entry{Key: k, Records: recs})
		return true
	})
	if bad != nil {
		return nil, bad
	}

	return snap, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		return "unknown"
	}
}
