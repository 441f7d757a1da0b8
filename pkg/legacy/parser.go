// Package legacy parses the vendor's colon-delimited "KEY: value" response format.
package legacy

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is an ordered set of key/value pairs parsed from one line.
// A repeated key keeps its first position and its last value.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (r *Record) Value(key string) string {
	return r.values[key]
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns keys in input order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Map returns an unordered copy of the record.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as an object, keys in input order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// RecordSet is one Record per response line, in input order.
type RecordSet []*Record

// First returns the first record, or an empty one for an empty set.
func (s RecordSet) First() *Record {
	if len(s) == 0 {
		return NewRecord()
	}
	return s[0]
}

// Parse splits body into lines and parses each one.
//
// With multi=false only the first line's record is returned (a set of length one).
// With multi=true every line yields a record, empty lines yielding empty records.
// Parse never fails: a line with no "key:" pattern is an empty record.
//
// Only one leading and one trailing newline are trimmed, so
// Parse("\n\nID: 1\n\n", true) yields three records: empty, ID 1, empty.
func Parse(body string, multi bool) RecordSet {
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimSuffix(body, "\n")

	lines := strings.Split(body, "\n")
	if !multi {
		return RecordSet{ParseLine(lines[0])}
	}

	out := make(RecordSet, 0, len(lines))
	for _, line := range lines {
		out = append(out, ParseLine(line))
	}
	return out
}

// ParseLine scans one line for KEY:value pairs.
//
// A key is one or more ASCII letters directly followed by ':'. The value is
// every following byte that is not itself directly followed by another key,
// trimmed of surrounding whitespace. This means a value never contains a
// "Word:" sequence and loses the byte right before the next key when that
// byte is not a separator (e.g. "ID: 5abc: x" parses as ID="" abc="x").
func ParseLine(line string) *Record {
	rec := NewRecord()

	pos := 0
	for pos < len(line) {
		end, ok := keyAt(line, pos)
		if !ok {
			pos++
			continue
		}
		key := line[pos:end]

		// end points at ':'
		vStart := end + 1
		vEnd := vStart
		for vEnd < len(line) {
			if _, next := keyAt(line, vEnd+1); next {
				break
			}
			vEnd++
		}

		rec.Set(key, strings.TrimSpace(line[vStart:vEnd]))
		pos = vEnd
	}
	return rec
}

// keyAt reports whether a key starts at i, returning the index of its ':'.
func keyAt(s string, i int) (int, bool) {
	j := i
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	if j == i || j >= len(s) || s[j] != ':' {
		return 0, false
	}
	return j, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// SplitError splits an ERR value such as "301, Some Error" into its numeric
// code and message. Values without a code yield code 0 and the whole value.
func SplitError(value string) (int, string) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, strings.TrimSpace(value)
	}
	code, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, strings.TrimSpace(value)
	}
	return code, strings.TrimSpace(parts[1])
}
