package domain

import (
	"bytes"
	"encoding/json"
	"iter"
)

// SearchResult maps matched keys to their records. Keys keep the order in
// which they were first added; a key is never overwritten once present.
type SearchResult struct {
	keys    []string
	records map[string]Records
}

// NewSearchResult returns an empty result.
func NewSearchResult() *SearchResult {
	return &SearchResult{records: make(map[string]Records)}
}

// Add stores records under key unless the key is already present.
// It reports whether the key was added.
func (r *SearchResult) Add(key string, records Records) bool {
	if _, ok := r.records[key]; ok {
		return false
	}
	r.keys = append(r.keys, key)
	r.records[key] = records
	return true
}

// Get returns the records stored under key.
func (r *SearchResult) Get(key string) (Records, bool) {
	recs, ok := r.records[key]
	return recs, ok
}

// Has reports whether key is part of the result.
func (r *SearchResult) Has(key string) bool {
	_, ok := r.records[key]
	return ok
}

// Keys returns the matched keys in insertion order.
func (r *SearchResult) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of matched keys.
func (r *SearchResult) Len() int { return len(r.keys) }

// All iterates the result in insertion order.
func (r *SearchResult) All() iter.Seq2[string, Records] {
	return func(yield func(string, Records) bool) {
		for _, k := range r.keys {
			if !yield(k, r.records[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the result as a JSON object whose member order is the
// insertion order.
func (r *SearchResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		recs := r.records[k]
		if recs == nil {
			recs = Records{}
		}
		val, err := json.Marshal(recs)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
