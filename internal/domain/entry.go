package domain

import "encoding/json"

// Records is the ordered list of pronunciation records stored under one
// dictionary key. Each record is kept as raw JSON and is never interpreted.
type Records []json.RawMessage

// Entry is a single dictionary key (a character or a word) with its records.
type Entry struct {
	Key     string
	Records Records
}
