// Package translate encodes transport output for callers.
package translate

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/legacy"
)

const logPrefix = "translate:translate"

// Translator turns a transport's envelope into caller output.
type Translator interface {
	Name() string
	Translate(v interface{}) (interface{}, error)
}

// JSON encodes values as a JSON string.
type JSON struct{}

func (JSON) Name() string { return "json" }

// Translate returns the JSON text of v.
func (JSON) Translate(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode json: %w", logPrefix, err)
	}
	return string(data), nil
}

// XML encodes values as element text without a document header: every map
// key becomes an element wrapping its value. List entries are emitted as
// <item> elements.
type XML struct{}

func (XML) Name() string { return "xml" }

// Translate returns the XML text of v.
func (XML) Translate(v interface{}) (interface{}, error) {
	var b strings.Builder
	if err := writeXML(&b, normalize(v)); err != nil {
		return nil, fmt.Errorf("%s - failed to encode xml: %w", logPrefix, err)
	}
	return b.String(), nil
}

// Raw passes values through unchanged, for in-process Go callers.
type Raw struct{}

func (Raw) Name() string { return "raw" }

// Translate returns v.
func (Raw) Translate(v interface{}) (interface{}, error) {
	return v, nil
}

// ByName returns the translator called name. Unknown names yield JSON.
func ByName(name string) Translator {
	switch strings.ToLower(name) {
	case "xml":
		return XML{}
	case "raw":
		return Raw{}
	default:
		return JSON{}
	}
}

// normalize turns the SDK's own types into maps and lists.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case envelope.Envelope:
		return t.Map()
	case *legacy.Record:
		m := make(map[string]interface{}, t.Len())
		for _, k := range t.Keys() {
			m[k] = t.Value(k)
		}
		return m
	case legacy.RecordSet:
		out := make([]interface{}, 0, len(t))
		for _, r := range t {
			out = append(out, normalize(r))
		}
		return out
	}
	return v
}

func writeXML(b *strings.Builder, v interface{}) error {
	v = normalize(v)
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		index := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			name := fmt.Sprint(k.Interface())
			keys = append(keys, name)
			index[name] = k
		}
		sort.Strings(keys)
		for _, name := range keys {
			b.WriteString("<" + name + ">")
			if err := writeXML(b, rv.MapIndex(index[name]).Interface()); err != nil {
				return err
			}
			b.WriteString("</" + name + ">")
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return xml.EscapeText(b, rv.Bytes())
		}
		for i := 0; i < rv.Len(); i++ {
			b.WriteString("<item>")
			if err := writeXML(b, rv.Index(i).Interface()); err != nil {
				return err
			}
			b.WriteString("</item>")
		}
	case reflect.Struct:
		// Structs go through their JSON form so field tags name the elements.
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var m interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		return writeXML(b, m)
	default:
		return xml.EscapeText(b, []byte(scalar(v)))
	}
	return nil
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}
