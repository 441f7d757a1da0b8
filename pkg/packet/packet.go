// Package packet builds the ordered request packet sent to the vendor.
package packet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Identity field names.
const (
	FieldUser     = "user"
	FieldPassword = "password"
	FieldAPIID    = "api_id"
	FieldToken    = "token"
)

// Identity holds the legacy authentication triple.
type Identity struct {
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	APIID    string `json:"apiId" yaml:"api_id"`
}

// Param is one packet entry.
type Param struct {
	Key   string
	Value interface{}
}

// Packet is an ordered field -> scalar map. Identity fields survive Reset;
// nothing else does. A Packet is not safe for concurrent use.
type Packet struct {
	keys     []string
	values   map[string]interface{}
	identity map[string]bool
}

func newPacket() *Packet {
	return &Packet{
		values:   make(map[string]interface{}),
		identity: make(map[string]bool),
	}
}

// New creates a packet carrying the legacy identity fields.
func New(id Identity) *Packet {
	p := newPacket()
	p.setIdentity(FieldUser, id.User)
	p.setIdentity(FieldPassword, id.Password)
	p.setIdentity(FieldAPIID, id.APIID)
	return p
}

// NewToken creates a packet carrying a bearer token as its only identity field.
func NewToken(token string) *Packet {
	p := newPacket()
	p.setIdentity(FieldToken, token)
	return p
}

func (p *Packet) setIdentity(key string, value interface{}) {
	p.identity[key] = true
	p.Set(key, value)
}

// Set stores value under key, keeping the first insertion position.
func (p *Packet) Set(key string, value interface{}) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Packet) Get(key string) (interface{}, bool) {
	v, ok := p.values[key]
	return v, ok
}

// String returns the encoded value under key, or "" when absent.
func (p *Packet) String(key string) string {
	v, ok := p.values[key]
	if !ok {
		return ""
	}
	return Format(v)
}

// Delete removes a non-identity key. It reports whether anything was removed.
func (p *Packet) Delete(key string) bool {
	if p.identity[key] {
		return false
	}
	if _, ok := p.values[key]; !ok {
		return false
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns all keys in insertion order.
func (p *Packet) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// IsIdentity reports whether key is an identity field.
func (p *Packet) IsIdentity(key string) bool {
	return p.identity[key]
}

// Reset drops every non-identity field.
func (p *Packet) Reset() {
	kept := p.keys[:0]
	for _, k := range p.keys {
		if p.identity[k] {
			kept = append(kept, k)
			continue
		}
		delete(p.values, k)
	}
	p.keys = kept
}

// Params returns the entries in insertion order. Identity fields are
// included only when withIdentity is true.
func (p *Packet) Params(withIdentity bool) []Param {
	out := make([]Param, 0, len(p.keys))
	for _, k := range p.keys {
		if !withIdentity && p.identity[k] {
			continue
		}
		out = append(out, Param{Key: k, Value: p.values[k]})
	}
	return out
}

// Encode renders the packet as a form body in insertion order. Empty values
// are skipped; bools encode as 1 or 0.
func (p *Packet) Encode() string {
	var b strings.Builder
	for _, param := range p.Params(true) {
		v := Format(param.Value)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// JSON renders the non-identity fields as a JSON object in insertion order.
func (p *Packet) JSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p.Params(false) {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(param.Key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(param.Value)
		if err != nil {
			return nil, fmt.Errorf("packet:packet - failed to encode %s: %w", param.Key, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Format renders a scalar as the vendor expects it on the wire.
func Format(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
